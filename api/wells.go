package api

import (
	"net/http"

	"screen-ai/services"

	"github.com/gin-gonic/gin"
)

func setupWellRoutes(rg *gin.RouterGroup, s *Server) {
	wells := s.Services.Wells
	g := rg.Group("/plates/:plate_id/wells")

	g.GET("", func(c *gin.Context) {
		page, ok := pageFromQuery(c, s.Config.PageLimitMax)
		if !ok {
			return
		}
		list, err := wells.List(c.Request.Context(), currentUser(c).ID, c.Param("plate_id"), page)
		if err != nil {
			respondError(c, s.Logger, err)
			return
		}
		c.JSON(http.StatusOK, list)
	})

	g.POST("", func(c *gin.Context) {
		var in services.WellInput
		if !bindJSON(c, &in) {
			return
		}
		w, err := wells.Create(c.Request.Context(), currentUser(c).ID, c.Param("plate_id"), in)
		if err != nil {
			respondError(c, s.Logger, err)
			return
		}
		c.JSON(http.StatusCreated, w)
	})

	g.GET("/:well_id", func(c *gin.Context) {
		w, err := wells.Get(c.Request.Context(), currentUser(c).ID, c.Param("plate_id"), c.Param("well_id"))
		if err != nil {
			respondError(c, s.Logger, err)
			return
		}
		c.JSON(http.StatusOK, w)
	})

	g.PATCH("/:well_id", func(c *gin.Context) {
		var in services.WellInput
		if !bindJSON(c, &in) {
			return
		}
		w, err := wells.Update(c.Request.Context(), currentUser(c).ID, c.Param("plate_id"), c.Param("well_id"), in)
		if err != nil {
			respondError(c, s.Logger, err)
			return
		}
		c.JSON(http.StatusOK, w)
	})

	g.DELETE("/:well_id", func(c *gin.Context) {
		if err := wells.Delete(c.Request.Context(), currentUser(c).ID, c.Param("plate_id"), c.Param("well_id")); err != nil {
			respondError(c, s.Logger, err)
			return
		}
		c.Status(http.StatusNoContent)
	})

	g.GET("/:well_id/thumbnails", func(c *gin.Context) {
		thumbs, err := wells.Thumbnails(c.Request.Context(), currentUser(c).ID, c.Param("plate_id"), c.Param("well_id"))
		if err != nil {
			respondError(c, s.Logger, err)
			return
		}
		c.JSON(http.StatusOK, thumbs)
	})
}
