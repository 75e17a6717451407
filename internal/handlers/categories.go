package handlers

import (
	"sort"

	"github.com/gofiber/fiber/v2"

	"github.com/kajbd/kajbd-backend/internal/storage"
)

type CategoryHandler struct {
	Store storage.Storage
}

func NewCategoryHandler(store storage.Storage) *CategoryHandler {
	return &CategoryHandler{Store: store}
}

// GetCategories returns the distinct categories currently in use by active
// listings, for the filter dropdowns.
func (h *CategoryHandler) GetCategories(c *fiber.Ctx) error {
	jobs, err := h.Store.ListJobs(c.Context(), storage.JobFilters{})
	if err != nil {
		return storageError(c, err)
	}
	tasks, err := h.Store.ListTasks(c.Context(), storage.TaskFilters{})
	if err != nil {
		return storageError(c, err)
	}

	jobCats := map[string]bool{}
	for _, j := range jobs {
		jobCats[j.Category] = true
	}
	taskCats := map[string]bool{}
	for _, t := range tasks {
		taskCats[t.Category] = true
	}

	return c.JSON(fiber.Map{
		"jobCategories":  sortedKeys(jobCats),
		"taskCategories": sortedKeys(taskCats),
	})
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
