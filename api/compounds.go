package api

import (
	"net/http"

	"screen-ai/services"

	"github.com/gin-gonic/gin"
)

// Die Substanzbibliothek ist nicht benutzergebunden; jeder angemeldete
// Benutzer darf lesen und schreiben.
func setupCompoundRoutes(rg *gin.RouterGroup, s *Server) {
	compounds := s.Services.Compounds
	g := rg.Group("/compounds")

	g.GET("", func(c *gin.Context) {
		page, ok := pageFromQuery(c, s.Config.PageLimitMax)
		if !ok {
			return
		}
		list, err := compounds.List(c.Request.Context(), page)
		if err != nil {
			respondError(c, s.Logger, err)
			return
		}
		c.JSON(http.StatusOK, list)
	})

	g.POST("", func(c *gin.Context) {
		var in services.CompoundInput
		if !bindJSON(c, &in) {
			return
		}
		compound, err := compounds.Create(c.Request.Context(), in)
		if err != nil {
			respondError(c, s.Logger, err)
			return
		}
		c.JSON(http.StatusCreated, compound)
	})

	g.GET("/:compound_id", func(c *gin.Context) {
		compound, err := compounds.Get(c.Request.Context(), c.Param("compound_id"))
		if err != nil {
			respondError(c, s.Logger, err)
			return
		}
		c.JSON(http.StatusOK, compound)
	})

	g.PATCH("/:compound_id", func(c *gin.Context) {
		var in services.CompoundInput
		if !bindJSON(c, &in) {
			return
		}
		compound, err := compounds.Update(c.Request.Context(), c.Param("compound_id"), in)
		if err != nil {
			respondError(c, s.Logger, err)
			return
		}
		c.JSON(http.StatusOK, compound)
	})

	g.DELETE("/:compound_id", func(c *gin.Context) {
		if err := compounds.Delete(c.Request.Context(), c.Param("compound_id")); err != nil {
			respondError(c, s.Logger, err)
			return
		}
		c.Status(http.StatusNoContent)
	})
}
