package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/batuwa-travels/travel-api/internal/domain"
	"github.com/batuwa-travels/travel-api/internal/service"
	"github.com/batuwa-travels/travel-api/internal/util"
)

// multipartMemory is the part of an upload kept in memory; the rest spills to
// temporary files.
const multipartMemory = 8 << 20

type ContentHandler struct {
	blogs   *service.BlogService
	gallery *service.GalleryService
}

// BlogRequest is the body of blog create and update calls.
type BlogRequest struct {
	Title   string `json:"title" example:"Top 5 treks for beginners"`
	Excerpt string `json:"excerpt"`
	Thumb   string `json:"thumb"`
	Date    string `json:"date" example:"2025-01-15"`
	Author  string `json:"author"`
	Content string `json:"content"`
}

// UploadResponse is returned by POST /api/upload.
type UploadResponse struct {
	Path        string              `json:"path"`
	GalleryItem *domain.GalleryItem `json:"galleryItem"`
}

type captionRequest struct {
	Caption string `json:"caption"`
}

func RegisterContent(e *echo.Echo, auth Authenticator, blogs *service.BlogService, gallery *service.GalleryService) {
	handler := &ContentHandler{blogs: blogs, gallery: gallery}

	e.GET("/api/blogs", handler.listBlogs)
	e.GET("/api/blogs/:id", handler.getBlog)
	e.GET("/api/gallery", handler.listGallery)

	editors := []echo.MiddlewareFunc{RequireAuth(auth), RequireRole(domain.AdminRoleEditor)}
	e.POST("/api/blogs", handler.createBlog, editors...)
	e.PUT("/api/blogs/:id", handler.updateBlog, editors...)
	e.DELETE("/api/blogs/:id", handler.deleteBlog, editors...)
	e.POST("/api/upload", handler.upload, editors...)
	e.PUT("/api/gallery/:id", handler.updateGallery, editors...)
	e.DELETE("/api/gallery/:id", handler.deleteGallery, editors...)
}

func (h *ContentHandler) listBlogs(c echo.Context) error {
	blogs, err := h.blogs.List(c.Request().Context())
	if err != nil {
		return internalError(c, "unable to list blogs", err)
	}
	return c.JSON(http.StatusOK, blogs)
}

func (h *ContentHandler) getBlog(c echo.Context) error {
	id, err := parseIDParam(c, "blog")
	if err != nil {
		return badRequest(c, err.Error())
	}
	blog, err := h.blogs.Get(c.Request().Context(), id)
	if err != nil {
		return contentError(c, err, "unable to load blog")
	}
	return c.JSON(http.StatusOK, blog)
}

func (h *ContentHandler) createBlog(c echo.Context) error {
	var req BlogRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	blog, err := h.blogs.Create(c.Request().Context(), service.BlogInput(req))
	if err != nil {
		return contentError(c, err, "unable to create blog")
	}
	return c.JSON(http.StatusCreated, blog)
}

func (h *ContentHandler) updateBlog(c echo.Context) error {
	id, err := parseIDParam(c, "blog")
	if err != nil {
		return badRequest(c, err.Error())
	}
	var req BlogRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	blog, err := h.blogs.Update(c.Request().Context(), id, service.BlogInput(req))
	if err != nil {
		return contentError(c, err, "unable to update blog")
	}
	return c.JSON(http.StatusOK, blog)
}

func (h *ContentHandler) deleteBlog(c echo.Context) error {
	id, err := parseIDParam(c, "blog")
	if err != nil {
		return badRequest(c, err.Error())
	}
	if err := h.blogs.Delete(c.Request().Context(), id); err != nil {
		return contentError(c, err, "unable to delete blog")
	}
	return c.JSON(http.StatusOK, util.Message("Blog deleted successfully"))
}

func (h *ContentHandler) listGallery(c echo.Context) error {
	items, err := h.gallery.List(c.Request().Context())
	if err != nil {
		return internalError(c, "unable to list gallery", err)
	}
	return c.JSON(http.StatusOK, items)
}

// upload handles POST /api/upload (multipart: file, caption)
func (h *ContentHandler) upload(c echo.Context) error {
	if err := c.Request().ParseMultipartForm(multipartMemory); err != nil {
		return badRequest(c, "invalid multipart payload")
	}
	header, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "file is required")
	}
	file, err := header.Open()
	if err != nil {
		return badRequest(c, "unable to read uploaded file")
	}
	defer file.Close()

	item, err := h.gallery.Upload(c.Request().Context(), service.ImageUpload{
		Reader:      file,
		Size:        header.Size,
		FileName:    header.Filename,
		ContentType: header.Header.Get(echo.HeaderContentType),
		Caption:     strings.TrimSpace(c.FormValue("caption")),
	})
	if err != nil {
		return contentError(c, err, "unable to upload file")
	}
	return c.JSON(http.StatusCreated, UploadResponse{Path: item.Path, GalleryItem: item})
}

func (h *ContentHandler) updateGallery(c echo.Context) error {
	id, err := parseIDParam(c, "gallery item")
	if err != nil {
		return badRequest(c, err.Error())
	}
	var req captionRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	item, err := h.gallery.UpdateCaption(c.Request().Context(), id, req.Caption)
	if err != nil {
		return contentError(c, err, "unable to update gallery item")
	}
	return c.JSON(http.StatusOK, item)
}

func (h *ContentHandler) deleteGallery(c echo.Context) error {
	id, err := parseIDParam(c, "gallery item")
	if err != nil {
		return badRequest(c, err.Error())
	}
	if err := h.gallery.Delete(c.Request().Context(), id); err != nil {
		return contentError(c, err, "unable to delete gallery item")
	}
	return c.JSON(http.StatusOK, util.Message("Gallery item deleted successfully"))
}

func contentError(c echo.Context, err error, fallback string) error {
	switch {
	case errors.Is(err, service.ErrBlogValidation), errors.Is(err, service.ErrUploadValidation):
		return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
	case errors.Is(err, service.ErrBlogNotFound), errors.Is(err, service.ErrGalleryNotFound):
		return c.JSON(http.StatusNotFound, util.Error(err.Error()))
	default:
		return internalError(c, fallback, err)
	}
}
