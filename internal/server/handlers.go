package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vovakirdan/boss-rush/internal/core"
	"github.com/vovakirdan/boss-rush/internal/profile"
	"github.com/vovakirdan/boss-rush/internal/storage"
)

type nameRequest struct {
	Name string `json:"name"`
}

type actionRequest struct {
	Action string `json:"action"`
}

func (s *Server) createKnight(c *gin.Context) {
	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rec, err := s.profiles.Create(strings.TrimSpace(req.Name))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rec)
}

func (s *Server) readKnight(c *gin.Context) {
	rec, err := s.profiles.Read(c.Param("name"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (s *Server) updateKnight(c *gin.Context) {
	var patch profile.Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rec, err := s.profiles.Update(c.Param("name"), patch)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (s *Server) deleteKnight(c *gin.Context) {
	if err := s.profiles.Delete(c.Param("name")); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) listKnights(c *gin.Context) {
	records, err := s.profiles.List()
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

func (s *Server) startBoss(c *gin.Context) {
	var req nameRequest
	// A missing or malformed body is reported as a missing name.
	_ = c.ShouldBindJSON(&req)

	bossID := c.Param("boss_id")
	if err := s.arena.StartBoss(req.Name, bossID); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "boss": bossID, "fight": s.arena.FightID()})
}

func (s *Server) action(c *gin.Context) {
	var req actionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.arena.Act(core.NormalizeAction(req.Action).String())
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s *Server) state(c *gin.Context) {
	c.JSON(http.StatusOK, s.arena.State())
}

func (s *Server) save(c *gin.Context) {
	if err := s.arena.Save(c.Param("name")); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s *Server) bosses(c *gin.Context) {
	c.JSON(http.StatusOK, s.arena.Bosses())
}

func (s *Server) fights(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if s.history == nil {
		c.JSON(http.StatusOK, []storage.FightRecord{})
		return
	}

	var (
		fights []storage.FightRecord
		err    error
	)
	if name := c.Query("knight"); name != "" {
		fights, err = s.history.KnightFights(name, limit)
	} else {
		fights, err = s.history.RecentFights(limit)
	}
	if err != nil {
		abortWithError(c, err)
		return
	}
	if fights == nil {
		fights = []storage.FightRecord{}
	}
	c.JSON(http.StatusOK, fights)
}
