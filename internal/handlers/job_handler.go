package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sjperalta/fintera-ledger/internal/services"
)

type JobHandler struct {
	jobService *services.JobService
}

func NewJobHandler(jobSvc *services.JobService) *JobHandler {
	return &JobHandler{
		jobService: jobSvc,
	}
}

// Status returns the current worker status
// @Summary Get background job status
// @Description Worker statistics (active, completed, failed, queue length) and schedules
// @Tags Jobs
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /accounting/jobs/status [get]
func (h *JobHandler) Status(c *gin.Context) {
	status := h.jobService.GetStatus()
	c.JSON(http.StatusOK, status)
}

// Run executes a registered job now. With async=true the job is queued and
// the call returns 202 right away.
// @Summary Run background job
// @Tags Jobs
// @Produce json
// @Param name path string true "Job name, e.g. budget_refresh"
// @Param async query bool false "Queue the job instead of waiting"
// @Success 200 {object} map[string]string
// @Success 202 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /accounting/jobs/{name}/run [post]
func (h *JobHandler) Run(c *gin.Context) {
	name := c.Param("name")
	if c.Query("async") == "true" {
		if err := h.jobService.Enqueue(name); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusAccepted, gin.H{"message": "Job queued", "job": name})
		return
	}
	if err := h.jobService.Run(name); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Job completed", "job": name})
}
