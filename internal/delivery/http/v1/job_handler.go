package v1

import (
	"net/http"

	"jobs-admin-backend/internal/delivery/http/response"
	"jobs-admin-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type JobHandler struct {
	jobUC    domain.JobUsecase
	exportUC domain.ExportUsecase
}

// NewJobHandler registers the job routes. write guards mutations.
func NewJobHandler(rg *gin.RouterGroup, write gin.HandlerFunc, jobUC domain.JobUsecase, exportUC domain.ExportUsecase) {
	handler := &JobHandler{jobUC: jobUC, exportUC: exportUC}

	jobs := rg.Group("/jobs")
	{
		jobs.GET("", handler.List)
		jobs.GET("/options", handler.Options)
		jobs.GET("/export", handler.Export)
		jobs.POST("", write, handler.Create)
		jobs.GET("/:id", handler.GetDetails)
		jobs.PATCH("/:id", write, handler.Update)
		jobs.DELETE("/:id", write, handler.Delete)
	}

	rg.POST("/companies/:id/recompute", write, handler.Recompute)
}

// jobStatusFilter treats unknown values as "all".
func jobStatusFilter(c *gin.Context) domain.JobStatusFilter {
	status, err := domain.ParseJobStatusFilter(c.Query("status"))
	if err != nil {
		return domain.JobStatusFilterAll
	}
	return status
}

// ListJobs godoc
// @Summary      List jobs
// @Description  Newest first, capped. search matches title, ref id or company name.
// @Tags         jobs
// @Produce      json
// @Param        search     query     string  false  "Search text"
// @Param        status     query     string  false  "all | open | closed | draft"
// @Param        companyId  query     string  false  "Company ID"
// @Success      200        {object}  response.Response
// @Router       /jobs [get]
func (h *JobHandler) List(c *gin.Context) {
	jobs, err := h.jobUC.ListJobs(c.Request.Context(), c.Query("search"), jobStatusFilter(c), c.Query("companyId"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Job list", jobs)
}

// GetJob godoc
// @Summary      Get job
// @Tags         jobs
// @Produce      json
// @Param        id   path      string  true  "Job ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /jobs/{id} [get]
func (h *JobHandler) GetDetails(c *gin.Context) {
	job, err := h.jobUC.GetJob(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Job details", job)
}

// CreateJob godoc
// @Summary      Create job
// @Description  Creates the job and recomputes its company's open job count.
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Param        job  body      domain.JobPayload  true  "Job JSON"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /jobs [post]
func (h *JobHandler) Create(c *gin.Context) {
	var payload domain.JobPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.Error(bindError(err))
		return
	}

	id, err := h.jobUC.CreateJob(c.Request.Context(), payload)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Job created", gin.H{"id": id})
}

// UpdateJob godoc
// @Summary      Update job
// @Description  Replaces every field. Moving a job to another company recomputes both companies.
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Param        id   path      string             true  "Job ID"
// @Param        job  body      domain.JobPayload  true  "Job JSON"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /jobs/{id} [patch]
func (h *JobHandler) Update(c *gin.Context) {
	var payload domain.JobPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.Error(bindError(err))
		return
	}

	if err := h.jobUC.UpdateJob(c.Request.Context(), c.Param("id"), payload); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Job updated", nil)
}

// DeleteJob godoc
// @Summary      Delete job
// @Tags         jobs
// @Produce      json
// @Param        id   path      string  true  "Job ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /jobs/{id} [delete]
func (h *JobHandler) Delete(c *gin.Context) {
	if err := h.jobUC.DeleteJob(c.Request.Context(), c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Job deleted", nil)
}

// JobOptions godoc
// @Summary      Job option tables
// @Description  Seniority, salary band and category values accepted by job payloads.
// @Tags         jobs
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /jobs/options [get]
func (h *JobHandler) Options(c *gin.Context) {
	response.Success(c, http.StatusOK, "Job options", h.jobUC.Options())
}

// ExportJobs godoc
// @Summary      Export jobs
// @Tags         jobs
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet,text/csv
// @Param        search     query  string  false  "Search text"
// @Param        status     query  string  false  "all | open | closed | draft"
// @Param        companyId  query  string  false  "Company ID"
// @Param        format     query  string  false  "xlsx | csv"
// @Success      200
// @Router       /jobs/export [get]
func (h *JobHandler) Export(c *gin.Context) {
	format, err := exportFormat(c)
	if err != nil {
		c.Error(err)
		return
	}

	file, err := h.exportUC.ExportJobs(c.Request.Context(), c.Query("search"), jobStatusFilter(c), c.Query("companyId"), format)
	if err != nil {
		c.Error(err)
		return
	}
	sendAttachment(c, file)
}

// RecomputeCompany godoc
// @Summary      Recompute company activity
// @Description  Rewrites total_jobs and is_active from the live job table.
// @Tags         companies
// @Produce      json
// @Param        id   path      string  true  "Company ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /companies/{id}/recompute [post]
func (h *JobHandler) Recompute(c *gin.Context) {
	if err := h.jobUC.RecomputeCompany(c.Request.Context(), c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Company recomputed", nil)
}
