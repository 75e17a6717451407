package handlers

import (
	"github.com/gofiber/fiber/v2"
	"golang.org/x/sync/errgroup"

	"github.com/kajbd/kajbd-backend/internal/middleware"
	"github.com/kajbd/kajbd-backend/internal/models"
	"github.com/kajbd/kajbd-backend/internal/storage"
)

type ApplicationHandler struct {
	Store storage.Storage
}

func NewApplicationHandler(store storage.Storage) *ApplicationHandler {
	return &ApplicationHandler{Store: store}
}

type ApplyReq struct {
	CoverLetter string `json:"coverLetter"`
}

// Apply creates an application for the session user. At most one application
// per (job, applicant) pair; the second attempt is rejected before insert.
func (h *ApplicationHandler) Apply(c *fiber.Ctx) error {
	jobID, ok := paramID(c)
	if !ok {
		return notFound(c, "Job not found")
	}
	uid := middleware.UserID(c)

	job, err := h.Store.GetJob(c.Context(), jobID)
	if err != nil {
		return storageError(c, err)
	}
	if job == nil {
		return notFound(c, "Job not found")
	}

	existing, err := h.Store.ListApplicationsByJob(c.Context(), jobID)
	if err != nil {
		return storageError(c, err)
	}
	for _, app := range existing {
		if app.ApplicantID == uid {
			return conflict(c, "Already applied to this job")
		}
	}

	var req ApplyReq
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	app := models.Application{
		JobID:       jobID,
		ApplicantID: uid,
		Status:      models.ApplicationPending,
		CoverLetter: req.CoverLetter,
	}
	if err := h.Store.CreateApplication(c.Context(), &app); err != nil {
		return storageError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(app)
}

func (h *ApplicationHandler) Mine(c *fiber.Ctx) error {
	apps, err := h.Store.ListApplicationsByApplicant(c.Context(), middleware.UserID(c))
	if err != nil {
		return storageError(c, err)
	}

	out := make([]applicationResponse, len(apps))
	g, ctx := errgroup.WithContext(c.Context())
	for i, app := range apps {
		i, app := i, app
		g.Go(func() error {
			job, err := h.Store.GetJob(ctx, app.JobID)
			if err != nil {
				return err
			}
			out[i] = applicationResponse{Application: app, Job: jobSummary(job)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return storageError(c, err)
	}
	return c.JSON(out)
}

type UpdateApplicationStatusReq struct {
	Status string `json:"status"`
}

// UpdateStatus lets the employer owning the job accept or reject a submission.
func (h *ApplicationHandler) UpdateStatus(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return notFound(c, "Application not found")
	}

	var req UpdateApplicationStatusReq
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	status := models.ApplicationStatus(req.Status)
	if !status.Valid() {
		errs := FieldErrors{}
		errs.Add("status", "status must be pending, accepted or rejected")
		return validationFail(c, errs)
	}

	app, err := h.Store.GetApplication(c.Context(), id)
	if err != nil {
		return storageError(c, err)
	}
	if app == nil {
		return notFound(c, "Application not found")
	}

	job, err := h.Store.GetJob(c.Context(), app.JobID)
	if err != nil {
		return storageError(c, err)
	}
	if job == nil || job.EmployerID != middleware.UserID(c) {
		return forbidden(c, "Access denied")
	}

	updated, err := h.Store.UpdateApplication(c.Context(), id, storage.ApplicationUpdate{Status: &status})
	if err != nil {
		return storageError(c, err)
	}
	if updated == nil {
		return notFound(c, "Application not found")
	}
	return c.JSON(updated)
}
