package v1

import (
	"net/http"

	"jobs-admin-backend/internal/delivery/http/response"
	"jobs-admin-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type CompanyHandler struct {
	companyUC    domain.CompanyUsecase
	exportUC     domain.ExportUsecase
	maxLogoBytes int
}

// NewCompanyHandler registers the company routes. write guards mutations.
func NewCompanyHandler(rg *gin.RouterGroup, write gin.HandlerFunc, companyUC domain.CompanyUsecase, exportUC domain.ExportUsecase, maxLogoBytes int) {
	handler := &CompanyHandler{
		companyUC:    companyUC,
		exportUC:     exportUC,
		maxLogoBytes: maxLogoBytes,
	}

	companies := rg.Group("/companies")
	{
		companies.GET("", handler.List)
		companies.GET("/export", handler.Export)
		companies.POST("", write, handler.Create)
		companies.GET("/:id", handler.Get)
		companies.PATCH("/:id", write, handler.Update)
		companies.GET("/:id/logo", handler.Logo)
	}
}

// companyStatusFilter treats unknown values as "all".
func companyStatusFilter(c *gin.Context) domain.CompanyStatusFilter {
	status, err := domain.ParseCompanyStatusFilter(c.Query("status"))
	if err != nil {
		return domain.CompanyStatusAll
	}
	return status
}

// ListCompanies godoc
// @Summary      List companies
// @Description  Newest first, capped. search matches name or ref id.
// @Tags         companies
// @Produce      json
// @Param        search  query     string  false  "Search text"
// @Param        status  query     string  false  "all | active | inactive"
// @Success      200     {object}  response.Response
// @Router       /companies [get]
func (h *CompanyHandler) List(c *gin.Context) {
	companies, err := h.companyUC.ListCompanies(c.Request.Context(), c.Query("search"), companyStatusFilter(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Company list", companies)
}

// GetCompany godoc
// @Summary      Get company
// @Tags         companies
// @Produce      json
// @Param        id   path      string  true  "Company ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /companies/{id} [get]
func (h *CompanyHandler) Get(c *gin.Context) {
	company, err := h.companyUC.GetCompany(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Company details", company)
}

// GetCompanyLogo godoc
// @Summary      Get company logo
// @Tags         companies
// @Produce      image/png,image/jpeg,image/gif,image/webp
// @Param        id   path  string  true  "Company ID"
// @Success      200
// @Failure      404  {object}  response.Response
// @Router       /companies/{id}/logo [get]
func (h *CompanyHandler) Logo(c *gin.Context) {
	logo, err := h.companyUC.GetCompanyLogo(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.Header("Cache-Control", "public, max-age=3600")
	c.Data(http.StatusOK, logo.Mime, logo.Bytes)
}

// CreateCompany godoc
// @Summary      Create company
// @Description  Creates the company and its primary contact. The company starts inactive.
// @Tags         companies
// @Accept       multipart/form-data
// @Produce      json
// @Param        refId             formData  string  true   "Reference code"
// @Param        name              formData  string  true   "Name"
// @Param        contactFirstName  formData  string  true   "Contact first name"
// @Param        contactLastName   formData  string  true   "Contact last name"
// @Param        contactEmail      formData  string  true   "Contact email"
// @Param        logo              formData  file    false  "Logo image"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /companies [post]
func (h *CompanyHandler) Create(c *gin.Context) {
	payload, upload, err := h.bind(c)
	if err != nil {
		c.Error(err)
		return
	}

	id, err := h.companyUC.CreateCompany(c.Request.Context(), payload, upload)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Company created", gin.H{"id": id})
}

// UpdateCompany godoc
// @Summary      Update company
// @Description  Replaces company and contact fields. Omitting logo keeps the stored one.
// @Tags         companies
// @Accept       multipart/form-data
// @Produce      json
// @Param        id    path      string  true   "Company ID"
// @Param        logo  formData  file    false  "Replacement logo"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /companies/{id} [patch]
func (h *CompanyHandler) Update(c *gin.Context) {
	payload, upload, err := h.bind(c)
	if err != nil {
		c.Error(err)
		return
	}

	if err := h.companyUC.UpdateCompany(c.Request.Context(), c.Param("id"), payload, upload); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Company updated", nil)
}

// ExportCompanies godoc
// @Summary      Export companies
// @Tags         companies
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet,text/csv
// @Param        search  query  string  false  "Search text"
// @Param        status  query  string  false  "all | active | inactive"
// @Param        format  query  string  false  "xlsx | csv"
// @Success      200
// @Router       /companies/export [get]
func (h *CompanyHandler) Export(c *gin.Context) {
	format, err := exportFormat(c)
	if err != nil {
		c.Error(err)
		return
	}

	file, err := h.exportUC.ExportCompanies(c.Request.Context(), c.Query("search"), companyStatusFilter(c), format)
	if err != nil {
		c.Error(err)
		return
	}
	sendAttachment(c, file)
}

func (h *CompanyHandler) bind(c *gin.Context) (domain.CompanyPayload, *domain.LogoUpload, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, int64(h.maxLogoBytes)+formOverhead)

	var payload domain.CompanyPayload
	if err := c.ShouldBind(&payload); err != nil {
		return payload, nil, bindError(err)
	}

	upload, err := readLogo(c, h.maxLogoBytes)
	if err != nil {
		return payload, nil, err
	}
	return payload, upload, nil
}
