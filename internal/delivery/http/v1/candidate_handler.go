package v1

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	"hirepath-backend/internal/delivery/http/response"
	"hirepath-backend/internal/domain"
	"hirepath-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeCSV  = "text/csv; charset=utf-8"
)

type CandidateHandler struct {
	candidateUC  domain.CandidateUsecase
	exportUC     domain.ExportUsecase
	defaultLimit int
}

// candidateRequest is the create/update body. Skills and experience are loosely
// typed on the wire and normalized before validation.
type candidateRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Skills     any    `json:"skills" swaggertype:"array,string"`
	ResumeLink string `json:"resumeLink"`
	Experience any    `json:"experience" swaggertype:"integer"`
	Status     string `json:"status"`
	Notes      string `json:"notes"`
}

// NewCandidateHandler registers candidate routes. Static paths are registered
// before /:id so they are never captured as identifiers.
func NewCandidateHandler(api *gin.RouterGroup, candidateUC domain.CandidateUsecase, exportUC domain.ExportUsecase, defaultLimit int) {
	if defaultLimit < 1 {
		defaultLimit = domain.DefaultLimit
	}
	handler := &CandidateHandler{
		candidateUC:  candidateUC,
		exportUC:     exportUC,
		defaultLimit: defaultLimit,
	}

	candidates := api.Group("/candidates")
	{
		candidates.GET("", handler.List)
		candidates.GET("/stats/overview", handler.Overview)
		candidates.GET("/stats", handler.Stats)
		candidates.GET("/export", handler.Export)
		candidates.POST("/bulk", handler.Bulk)
		candidates.GET("/:id", handler.Get)
		candidates.POST("", handler.Create)
		candidates.PUT("/:id", handler.Update)
		candidates.DELETE("/:id", handler.Delete)
	}
}

// List godoc
// @Summary      List candidates
// @Description  Filtered, searched, sorted and paginated candidate listing
// @Tags         candidates
// @Produce      json
// @Param        search         query  string  false  "Substring match on name, email, skills and notes"
// @Param        status         query  string  false  "active, inactive, archived or all (default)"
// @Param        minExperience  query  int     false  "Minimum years of experience"
// @Param        maxExperience  query  int     false  "Maximum years of experience"
// @Param        skills         query  string  false  "Comma-separated skills, any of which must match"
// @Param        page           query  int     false  "Page number (default: 1)"
// @Param        limit          query  int     false  "Items per page (default: 10, max: 100)"
// @Param        sortBy         query  string  false  "name, email, experience, createdAt or updatedAt"
// @Param        sortOrder      query  string  false  "asc or desc (default)"
// @Success      200  {object}  domain.PaginatedResult[domain.Candidate]
// @Failure      500  {object}  response.ErrorResponse
// @Router       /candidates [get]
func (h *CandidateHandler) List(c *gin.Context) {
	result, err := h.candidateUC.List(c.Request.Context(), h.parseFilter(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// Overview godoc
// @Summary      Full candidate statistics
// @Tags         candidates
// @Produce      json
// @Success      200  {object}  domain.StatsOverview
// @Failure      500  {object}  response.ErrorResponse
// @Router       /candidates/stats/overview [get]
func (h *CandidateHandler) Overview(c *gin.Context) {
	stats, err := h.candidateUC.Overview(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.JSON(c, http.StatusOK, stats)
}

// Stats godoc
// @Summary      Dashboard statistics
// @Tags         candidates
// @Produce      json
// @Success      200  {object}  domain.DashboardStats
// @Failure      500  {object}  response.ErrorResponse
// @Router       /candidates/stats [get]
func (h *CandidateHandler) Stats(c *gin.Context) {
	stats, err := h.candidateUC.DashboardStats(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.JSON(c, http.StatusOK, stats)
}

// Export godoc
// @Summary      Export candidates
// @Description  Exports every candidate matching the list filters as xlsx or csv
// @Tags         candidates
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Produce      text/csv
// @Param        format   query  string  false  "xlsx (default) or csv"
// @Param        columns  query  string  false  "Comma-separated columns (default: all)"
// @Success      200  {file}    file
// @Failure      400  {object}  response.ErrorResponse
// @Router       /candidates/export [get]
func (h *CandidateHandler) Export(c *gin.Context) {
	req := domain.ExportRequest{
		Filter: h.parseFilter(c),
		Format: strings.ToLower(strings.TrimSpace(c.Query("format"))),
	}
	if cols := c.Query("columns"); cols != "" {
		req.Columns = splitList(cols)
	}

	data, filename, err := h.exportUC.Export(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	contentType := contentTypeXLSX
	if strings.HasSuffix(filename, "."+domain.ExportCSV) {
		contentType = contentTypeCSV
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, data)
}

// Bulk godoc
// @Summary      Bulk candidate action
// @Description  delete, update_status (with data.status), archive or unarchive many candidates at once
// @Tags         candidates
// @Accept       json
// @Produce      json
// @Param        request  body      domain.BulkRequest  true  "Bulk action"
// @Success      200      {object}  domain.BulkResult
// @Failure      400      {object}  response.ErrorResponse
// @Failure      500      {object}  response.ErrorResponse
// @Router       /candidates/bulk [post]
func (h *CandidateHandler) Bulk(c *gin.Context) {
	var req domain.BulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperror.BadRequest("Action and ids array are required"))
		return
	}

	result, err := h.candidateUC.Bulk(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// Get godoc
// @Summary      Get a candidate
// @Tags         candidates
// @Produce      json
// @Param        id   path      string  true  "Candidate ID"
// @Success      200  {object}  domain.Candidate
// @Failure      404  {object}  response.ErrorResponse
// @Router       /candidates/{id} [get]
func (h *CandidateHandler) Get(c *gin.Context) {
	candidate, err := h.candidateUC.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.JSON(c, http.StatusOK, candidate)
}

// Create godoc
// @Summary      Create a candidate
// @Tags         candidates
// @Accept       json
// @Produce      json
// @Param        request  body      candidateRequest  true  "Candidate"
// @Success      201      {object}  domain.Candidate
// @Failure      400      {object}  response.ValidationResponse
// @Failure      409      {object}  response.ErrorResponse
// @Router       /candidates [post]
func (h *CandidateHandler) Create(c *gin.Context) {
	input, ok := bindCandidate(c)
	if !ok {
		return
	}

	candidate, err := h.candidateUC.Create(c.Request.Context(), input)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.JSON(c, http.StatusCreated, candidate)
}

// Update godoc
// @Summary      Update a candidate
// @Description  Replaces every field; a missing status resets to active
// @Tags         candidates
// @Accept       json
// @Produce      json
// @Param        id       path      string            true  "Candidate ID"
// @Param        request  body      candidateRequest  true  "Candidate"
// @Success      200      {object}  domain.Candidate
// @Failure      400      {object}  response.ValidationResponse
// @Failure      404      {object}  response.ErrorResponse
// @Failure      409      {object}  response.ErrorResponse
// @Router       /candidates/{id} [put]
func (h *CandidateHandler) Update(c *gin.Context) {
	input, ok := bindCandidate(c)
	if !ok {
		return
	}

	candidate, err := h.candidateUC.Update(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.JSON(c, http.StatusOK, candidate)
}

// Delete godoc
// @Summary      Delete a candidate
// @Tags         candidates
// @Produce      json
// @Param        id   path      string  true  "Candidate ID"
// @Success      200  {object}  response.MessageResponse
// @Failure      404  {object}  response.ErrorResponse
// @Router       /candidates/{id} [delete]
func (h *CandidateHandler) Delete(c *gin.Context) {
	if err := h.candidateUC.Delete(c.Request.Context(), c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}
	response.Message(c, http.StatusOK, "Candidate deleted successfully")
}

// parseFilter reads listing parameters. Malformed numbers fall back to their
// defaults instead of failing the request.
func (h *CandidateHandler) parseFilter(c *gin.Context) domain.CandidateFilter {
	filter := domain.CandidateFilter{
		Search:    c.Query("search"),
		Status:    c.Query("status"),
		Page:      domain.DefaultPage,
		Limit:     h.defaultLimit,
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
	}

	if page := c.Query("page"); page != "" {
		if v, err := strconv.Atoi(page); err == nil {
			filter.Page = v
		}
	}
	if limit := c.Query("limit"); limit != "" {
		if v, err := strconv.Atoi(limit); err == nil {
			filter.Limit = v
		}
	}
	if years := c.Query("minExperience"); years != "" {
		if v, err := strconv.Atoi(years); err == nil {
			filter.MinExperience = &v
		}
	}
	if years := c.Query("maxExperience"); years != "" {
		if v, err := strconv.Atoi(years); err == nil {
			filter.MaxExperience = &v
		}
	}
	if skills := c.Query("skills"); skills != "" {
		filter.Skills = domain.ParseSkillTokens(skills)
	}

	return filter
}

func bindCandidate(c *gin.Context) (domain.CandidateInput, bool) {
	var req candidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperror.BadRequest("Invalid request body"))
		return domain.CandidateInput{}, false
	}

	// Unusable skills are left empty so validation reports them
	skills, _ := domain.NormalizeSkills(req.Skills)

	return domain.CandidateInput{
		Name:       req.Name,
		Email:      req.Email,
		Skills:     skills,
		ResumeLink: req.ResumeLink,
		Experience: parseExperience(req.Experience),
		Status:     req.Status,
		Notes:      req.Notes,
	}, true
}

// parseExperience accepts a JSON number or a numeric string; anything else
// counts as not supplied. In-range fractions are truncated. Out-of-range values
// are rounded away from the bounds so the range check still rejects them.
func parseExperience(raw any) *int {
	var f float64
	switch v := raw.(type) {
	case float64:
		f = v
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return nil
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}
	if math.IsNaN(f) {
		return nil
	}

	var n int
	switch {
	case f > domain.MaxExperience:
		n = int(math.Min(math.Ceil(f), domain.MaxExperience+1))
	case f < domain.MinExperience:
		n = int(math.Max(math.Floor(f), domain.MinExperience-1))
	default:
		n = int(f)
	}
	return &n
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
