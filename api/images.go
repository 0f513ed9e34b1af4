package api

import (
	"mime/multipart"
	"net/http"
	"strconv"

	"screen-ai/services"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

func setupImageRoutes(rg *gin.RouterGroup, s *Server) {
	images := s.Services.Images

	wg := rg.Group("/wells/:well_id/images")
	wg.GET("", func(c *gin.Context) {
		page, ok := pageFromQuery(c, s.Config.PageLimitMax)
		if !ok {
			return
		}
		list, err := images.List(c.Request.Context(), currentUser(c).ID, c.Param("well_id"), page)
		if err != nil {
			respondError(c, s.Logger, err)
			return
		}
		c.JSON(http.StatusOK, list)
	})

	// JSON registriert ein bereits abgelegtes Objekt, multipart lädt Datei
	// (und optional ein Vorschaubild) in den Blob-Store.
	wg.POST("", func(c *gin.Context) {
		if c.ContentType() == binding.MIMEMultipartPOSTForm {
			uploadImage(c, s)
			return
		}
		var in services.ImageInput
		if !bindJSON(c, &in) {
			return
		}
		img, err := images.Create(c.Request.Context(), currentUser(c).ID, c.Param("well_id"), in)
		if err != nil {
			respondError(c, s.Logger, err)
			return
		}
		c.JSON(http.StatusCreated, img)
	})

	g := rg.Group("/images/:image_id")
	g.GET("", func(c *gin.Context) {
		img, err := images.Get(c.Request.Context(), currentUser(c).ID, c.Param("image_id"))
		if err != nil {
			respondError(c, s.Logger, err)
			return
		}
		c.JSON(http.StatusOK, img)
	})

	g.DELETE("", func(c *gin.Context) {
		if err := images.Delete(c.Request.Context(), currentUser(c).ID, c.Param("image_id")); err != nil {
			respondError(c, s.Logger, err)
			return
		}
		c.Status(http.StatusNoContent)
	})

	g.GET("/content", func(c *gin.Context) {
		url, err := images.ContentURL(c.Request.Context(), currentUser(c).ID, c.Param("image_id"))
		if err != nil {
			respondError(c, s.Logger, err)
			return
		}
		c.Redirect(http.StatusTemporaryRedirect, url)
	})

	g.GET("/thumbnail", func(c *gin.Context) {
		url, err := images.ThumbnailURL(c.Request.Context(), currentUser(c).ID, c.Param("image_id"))
		if err != nil {
			respondError(c, s.Logger, err)
			return
		}
		c.Redirect(http.StatusTemporaryRedirect, url)
	})
}

func uploadImage(c *gin.Context, s *Server) {
	fh, err := c.FormFile("file")
	if err != nil {
		badRequest(c, "file is required")
		return
	}
	file, err := fh.Open()
	if err != nil {
		badRequest(c, "file could not be read")
		return
	}
	defer file.Close()

	in := services.UploadInput{
		File:    upload(fh, file),
		Channel: c.PostForm("channel"),
	}
	if in.FieldIndex, err = formInt(c, "field_index"); err != nil {
		badRequest(c, "field_index must be an integer")
		return
	}
	if in.ChannelIndex, err = formInt(c, "channel_index"); err != nil {
		badRequest(c, "channel_index must be an integer")
		return
	}
	if raw := c.PostForm("pixel_size_um"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			badRequest(c, "pixel_size_um must be a number")
			return
		}
		in.PixelSizeUM = &v
	}
	if th, err := c.FormFile("thumbnail"); err == nil {
		thumb, err := th.Open()
		if err != nil {
			badRequest(c, "thumbnail could not be read")
			return
		}
		defer thumb.Close()
		u := upload(th, thumb)
		in.Thumbnail = &u
	}

	img, err := s.Services.Images.UploadImage(c.Request.Context(), currentUser(c).ID, c.Param("well_id"), in)
	if err != nil {
		respondError(c, s.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, img)
}

func upload(fh *multipart.FileHeader, f multipart.File) services.Upload {
	return services.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Body:        f,
	}
}

func formInt(c *gin.Context, key string) (int, error) {
	raw := c.PostForm(key)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
