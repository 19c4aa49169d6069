package domain

type DashboardCounts struct {
	TotalUsers        int     `db:"total_users" json:"totalUsers"`
	TotalBookings     int     `db:"total_bookings" json:"totalBookings"`
	TotalTours        int     `db:"total_tours" json:"totalTours"`
	PublishedTours    int     `db:"published_tours" json:"publishedTours"`
	HiddenTours       int     `db:"hidden_tours" json:"hiddenTours"`
	PendingBookings   int     `db:"pending_bookings" json:"pendingBookings"`
	ApprovedBookings  int     `db:"approved_bookings" json:"approvedBookings"`
	CancelledBookings int     `db:"cancelled_bookings" json:"cancelledBookings"`
	PendingInquiries  int     `db:"pending_inquiries" json:"pendingInquiries"`
	PendingReviews    int     `db:"pending_reviews" json:"pendingReviews"`
	ApprovedReviews   int     `db:"approved_reviews" json:"approvedReviews"`
	TotalRevenue      float64 `db:"total_revenue" json:"totalRevenue"`
}

type MonthlyRevenue struct {
	Year     int     `db:"year" json:"year"`
	Month    int     `db:"month" json:"month"`
	Revenue  float64 `db:"revenue" json:"revenue"`
	Bookings int     `db:"bookings" json:"bookings"`
}

type DashboardSummary struct {
	Stats          DashboardCounts  `json:"stats"`
	MonthlyRevenue []MonthlyRevenue `json:"monthlyRevenue"`
	RecentBookings []Booking        `json:"recentBookings"`
}

// RevenueStatuses are the booking states counted as earned revenue.
var RevenueStatuses = []BookingStatus{BookingApproved, BookingCompleted}
