package server

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tchevalier/mpm/internal/project"
	"github.com/tchevalier/mpm/internal/report"
	"github.com/tchevalier/mpm/internal/schedule"
	"github.com/tchevalier/mpm/internal/store"
)

// scheduleRequest is the compute payload: a task list plus an optional
// plan name, matching the original API body.
type scheduleRequest struct {
	Name  string          `json:"name"`
	Tasks []schedule.Task `json:"tasks"`
}

type scheduleResponse struct {
	Success bool             `json:"success"`
	Results *schedule.Result `json:"results"`
	RunID   string           `json:"run_id,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// compute parses, sanitizes and schedules the request body. Client
// problems come back as 400 with the structured error code; anything else
// is a 500.
func (s *Server) compute(c *gin.Context) (*scheduleRequest, *schedule.Result, bool) {
	var req scheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("invalid request body: %v", err)})
		return nil, nil, false
	}

	tasks, err := project.SanitizeTasks(req.Tasks)
	if err != nil {
		var le *project.LoadError
		code := ""
		if errors.As(err, &le) {
			code = le.Code
		}
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error(), Code: code})
		return nil, nil, false
	}

	res, err := schedule.Compute(tasks)
	if err != nil {
		var se *schedule.ScheduleError
		if errors.As(err, &se) && schedule.IsInputError(err) {
			c.JSON(http.StatusBadRequest, errorResponse{Error: se.Message + taskSuffix(se), Code: string(se.Code)})
			return nil, nil, false
		}
		s.logger.Error("schedule computation failed", "error", err)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error during computation"})
		return nil, nil, false
	}

	req.Tasks = tasks
	return &req, res, true
}

func taskSuffix(se *schedule.ScheduleError) string {
	if se.Task == "" {
		return ""
	}
	return fmt.Sprintf(" (task %q)", se.Task)
}

func (s *Server) handleSchedule(c *gin.Context) {
	req, res, ok := s.compute(c)
	if !ok {
		return
	}

	resp := scheduleResponse{Success: true, Results: res}
	if s.store != nil && c.Query("save") == "1" {
		id, err := s.store.SaveRun(c.Request.Context(), req.Name, req.Tasks, res)
		if err != nil {
			s.logger.Error("saving run", "error", err)
			c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to save run"})
			return
		}
		resp.RunID = id
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleReport(c *gin.Context) {
	req, res, ok := s.compute(c)
	if !ok {
		return
	}

	pdf, err := report.Generate(req.Name, res, time.Now())
	if err != nil {
		s.logger.Error("generating report", "error", err)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to generate report"})
		return
	}

	filename := fmt.Sprintf("reseau_mpm_%s.pdf", time.Now().Format("20060102_150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

func (s *Server) handleListRuns(c *gin.Context) {
	runs, err := s.store.ListRuns(c.Request.Context(), 100)
	if err != nil {
		s.logger.Error("listing runs", "error", err)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to list runs"})
		return
	}
	if runs == nil {
		runs = []store.RunSummary{}
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

func (s *Server) handleGetRun(c *gin.Context) {
	run, err := s.store.GetRun(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrRunNotFound) {
		c.JSON(http.StatusNotFound, errorResponse{Error: "run not found"})
		return
	}
	if err != nil {
		s.logger.Error("reading run", "error", err)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to read run"})
		return
	}
	c.JSON(http.StatusOK, run)
}
