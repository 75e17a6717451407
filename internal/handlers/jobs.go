package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/sync/errgroup"

	"github.com/kajbd/kajbd-backend/internal/middleware"
	"github.com/kajbd/kajbd-backend/internal/models"
	"github.com/kajbd/kajbd-backend/internal/storage"
)

type JobHandler struct {
	Store storage.Storage
}

func NewJobHandler(store storage.Storage) *JobHandler {
	return &JobHandler{Store: store}
}

func (h *JobHandler) List(c *fiber.Ctx) error {
	jobs, err := h.Store.ListJobs(c.Context(), storage.JobFilters{
		City:     c.Query("city"),
		Category: c.Query("category"),
		Search:   c.Query("search"),
	})
	if err != nil {
		return storageError(c, err)
	}

	// Owner lookups are independent and read-only, so they may run
	// concurrently per item.
	out := make([]jobResponse, len(jobs))
	g, ctx := errgroup.WithContext(c.Context())
	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			employer, err := h.Store.GetUser(ctx, job.EmployerID)
			if err != nil {
				return err
			}
			out[i] = jobResponse{Job: job, Employer: employerSummary(employer)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return storageError(c, err)
	}

	return c.JSON(out)
}

func (h *JobHandler) Get(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return notFound(c, "Job not found")
	}

	job, err := h.Store.GetJob(c.Context(), id)
	if err != nil {
		return storageError(c, err)
	}
	if job == nil {
		return notFound(c, "Job not found")
	}

	employer, err := h.Store.GetUser(c.Context(), job.EmployerID)
	if err != nil {
		return storageError(c, err)
	}
	return c.JSON(jobResponse{Job: *job, Employer: employerSummary(employer)})
}

type CreateJobReq struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Company      string   `json:"company"`
	Location     string   `json:"location"`
	City         string   `json:"city"`
	Salary       string   `json:"salary"`
	Type         string   `json:"type"`
	Category     string   `json:"category"`
	Requirements []string `json:"requirements"`
	Skills       []string `json:"skills"`
	Experience   string   `json:"experience"`
}

func (h *JobHandler) Create(c *fiber.Ctx) error {
	var req CreateJobReq
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	errs := FieldErrors{}
	required := map[string]string{
		"title":       req.Title,
		"description": req.Description,
		"company":     req.Company,
		"location":    req.Location,
		"city":        req.City,
		"salary":      req.Salary,
		"category":    req.Category,
		"experience":  req.Experience,
	}
	for field, v := range required {
		if strings.TrimSpace(v) == "" {
			errs.Add(field, field+" is required")
		}
	}
	jobType := models.JobType(req.Type)
	if !jobType.Valid() {
		errs.Add("type", "type must be full-time, part-time, contract or remote")
	}
	if len(errs) > 0 {
		return validationFail(c, errs)
	}

	requirements := req.Requirements
	if requirements == nil {
		requirements = []string{}
	}
	skills := req.Skills
	if skills == nil {
		skills = []string{}
	}
	job := models.Job{
		Title:        req.Title,
		Description:  req.Description,
		Company:      req.Company,
		Location:     req.Location,
		City:         req.City,
		Salary:       req.Salary,
		Type:         jobType,
		Category:     req.Category,
		Requirements: requirements,
		Skills:       skills,
		Experience:   req.Experience,
		EmployerID:   middleware.UserID(c),
		IsActive:     true,
	}
	if err := h.Store.CreateJob(c.Context(), &job); err != nil {
		return storageError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(job)
}

type UpdateJobReq struct {
	Title        *string   `json:"title"`
	Description  *string   `json:"description"`
	Company      *string   `json:"company"`
	Location     *string   `json:"location"`
	City         *string   `json:"city"`
	Salary       *string   `json:"salary"`
	Type         *string   `json:"type"`
	Category     *string   `json:"category"`
	Requirements *[]string `json:"requirements"`
	Skills       *[]string `json:"skills"`
	Experience   *string   `json:"experience"`
	IsActive     *bool     `json:"isActive"`
}

func (h *JobHandler) Update(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return notFound(c, "Job not found")
	}

	job, err := h.Store.GetJob(c.Context(), id)
	if err != nil {
		return storageError(c, err)
	}
	if job == nil {
		return notFound(c, "Job not found")
	}
	if job.EmployerID != middleware.UserID(c) {
		return forbidden(c, "Access denied")
	}

	var req UpdateJobReq
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	upd := storage.JobUpdate{
		Title:        req.Title,
		Description:  req.Description,
		Company:      req.Company,
		Location:     req.Location,
		City:         req.City,
		Salary:       req.Salary,
		Category:     req.Category,
		Requirements: req.Requirements,
		Skills:       req.Skills,
		Experience:   req.Experience,
		IsActive:     req.IsActive,
	}
	if req.Type != nil {
		jobType := models.JobType(*req.Type)
		if !jobType.Valid() {
			errs := FieldErrors{}
			errs.Add("type", "type must be full-time, part-time, contract or remote")
			return validationFail(c, errs)
		}
		upd.Type = &jobType
	}

	updated, err := h.Store.UpdateJob(c.Context(), id, upd)
	if err != nil {
		return storageError(c, err)
	}
	if updated == nil {
		return notFound(c, "Job not found")
	}
	return c.JSON(updated)
}

func (h *JobHandler) Delete(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return notFound(c, "Job not found")
	}

	job, err := h.Store.GetJob(c.Context(), id)
	if err != nil {
		return storageError(c, err)
	}
	if job == nil {
		return notFound(c, "Job not found")
	}
	if job.EmployerID != middleware.UserID(c) {
		return forbidden(c, "Access denied")
	}

	deleted, err := h.Store.DeleteJob(c.Context(), id)
	if err != nil {
		return storageError(c, err)
	}
	if !deleted {
		return notFound(c, "Job not found")
	}
	return c.JSON(fiber.Map{"message": "Job deleted"})
}

func (h *JobHandler) Mine(c *fiber.Ctx) error {
	jobs, err := h.Store.ListJobsByEmployer(c.Context(), middleware.UserID(c))
	if err != nil {
		return storageError(c, err)
	}
	return c.JSON(jobs)
}

// Applications lists the submissions against one of the caller's jobs.
func (h *JobHandler) Applications(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return notFound(c, "Job not found")
	}

	job, err := h.Store.GetJob(c.Context(), id)
	if err != nil {
		return storageError(c, err)
	}
	if job == nil {
		return notFound(c, "Job not found")
	}
	if job.EmployerID != middleware.UserID(c) {
		return forbidden(c, "Access denied")
	}

	apps, err := h.Store.ListApplicationsByJob(c.Context(), id)
	if err != nil {
		return storageError(c, err)
	}

	out := make([]jobApplicationResponse, len(apps))
	g, ctx := errgroup.WithContext(c.Context())
	for i, app := range apps {
		i, app := i, app
		g.Go(func() error {
			applicant, err := h.Store.GetUser(ctx, app.ApplicantID)
			if err != nil {
				return err
			}
			out[i] = jobApplicationResponse{Application: app, Applicant: freelancerSummary(applicant)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return storageError(c, err)
	}
	return c.JSON(out)
}
