package storage

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/kajbd/kajbd-backend/internal/db"
	"github.com/kajbd/kajbd-backend/internal/models"
)

// The suite below runs against every backend so the two implementations cannot
// drift apart. The relational backend only runs when TEST_DB_DSN points at a
// disposable Postgres database.

type backend struct {
	name  string
	fresh func(t *testing.T) Storage
}

func backends(t *testing.T) []backend {
	t.Helper()

	out := []backend{
		{name: "memory", fresh: func(t *testing.T) Storage { return NewMemStorage() }},
	}

	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Log("TEST_DB_DSN not set, skipping postgres backend")
		return out
	}

	out = append(out, backend{name: "postgres", fresh: func(t *testing.T) Storage {
		gdb, err := db.Connect(dsn)
		if err != nil {
			t.Fatalf("connect: %v", err)
		}
		ents := []interface{}{
			&models.Message{}, &models.Order{}, &models.Application{},
			&models.Task{}, &models.Job{}, &models.User{},
		}
		if err := gdb.Migrator().DropTable(ents...); err != nil {
			t.Fatalf("drop tables: %v", err)
		}
		if err := gdb.AutoMigrate(
			&models.User{}, &models.Job{}, &models.Task{},
			&models.Application{}, &models.Order{}, &models.Message{},
		); err != nil {
			t.Fatalf("migrate: %v", err)
		}
		return NewGormStorage(gdb)
	}})
	return out
}

func seedUser(t *testing.T, s Storage, username string, role models.Role) *models.User {
	t.Helper()
	u := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "x",
		FullName: "User " + username,
		Role:     role,
		Skills:   []string{},
	}
	if err := s.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return u
}

func seedJob(t *testing.T, s Storage, employerID uint, mutate func(*models.Job)) *models.Job {
	t.Helper()
	j := &models.Job{
		Title:       "Backend Engineer",
		Description: "Build APIs",
		Company:     "Acme",
		Location:    "Banani",
		City:        "Dhaka",
		Salary:      "50000",
		Type:        models.JobFullTime,
		Category:    "engineering",
		EmployerID:  employerID,
		IsActive:    true,
	}
	if mutate != nil {
		mutate(j)
	}
	if err := s.CreateJob(context.Background(), j); err != nil {
		t.Fatalf("seed job: %v", err)
	}
	return j
}

func seedTask(t *testing.T, s Storage, freelancerID uint, mutate func(*models.Task)) *models.Task {
	t.Helper()
	task := &models.Task{
		Title:        "Logo design",
		Description:  "Vector logo",
		Category:     "design",
		Price:        1500,
		DeliveryTime: 3,
		FreelancerID: freelancerID,
		IsActive:     true,
	}
	if mutate != nil {
		mutate(task)
	}
	if err := s.CreateTask(context.Background(), task); err != nil {
		t.Fatalf("seed task: %v", err)
	}
	return task
}

func TestUserUniqueness(t *testing.T) {
	for _, b := range backends(t) {
		t.Run(b.name, func(t *testing.T) {
			s := b.fresh(t)
			ctx := context.Background()

			seedUser(t, s, "alice", models.RoleJobSeeker)

			dup := &models.User{Username: "alice2", Email: "alice@example.com", Password: "x", FullName: "A", Role: models.RoleJobSeeker, Skills: []string{}}
			if err := s.CreateUser(ctx, dup); err != ErrDuplicate {
				t.Fatalf("duplicate email: got %v, want ErrDuplicate", err)
			}

			dup = &models.User{Username: "alice", Email: "other@example.com", Password: "x", FullName: "A", Role: models.RoleJobSeeker, Skills: []string{}}
			if err := s.CreateUser(ctx, dup); err != ErrDuplicate {
				t.Fatalf("duplicate username: got %v, want ErrDuplicate", err)
			}
		})
	}
}

func TestGetMissingReturnsNilNil(t *testing.T) {
	for _, b := range backends(t) {
		t.Run(b.name, func(t *testing.T) {
			s := b.fresh(t)
			ctx := context.Background()

			u, err := s.GetUser(ctx, 999)
			if err != nil || u != nil {
				t.Fatalf("GetUser(missing) = (%v, %v), want (nil, nil)", u, err)
			}
			j, err := s.GetJob(ctx, 999)
			if err != nil || j != nil {
				t.Fatalf("GetJob(missing) = (%v, %v), want (nil, nil)", j, err)
			}
			o, err := s.GetOrder(ctx, 999)
			if err != nil || o != nil {
				t.Fatalf("GetOrder(missing) = (%v, %v), want (nil, nil)", o, err)
			}
		})
	}
}

func TestJobFilters(t *testing.T) {
	for _, b := range backends(t) {
		t.Run(b.name, func(t *testing.T) {
			s := b.fresh(t)
			ctx := context.Background()

			emp := seedUser(t, s, "employer1", models.RoleEmployer)

			dhaka := seedJob(t, s, emp.ID, func(j *models.Job) { j.Title = "Go Developer"; j.City = "Dhaka" })
			seedJob(t, s, emp.ID, func(j *models.Job) { j.Title = "Accountant"; j.City = "Chittagong"; j.Category = "finance" })
			seedJob(t, s, emp.ID, func(j *models.Job) { j.Title = "Hidden"; j.IsActive = false })

			// City match is case-insensitive.
			got, err := s.ListJobs(ctx, JobFilters{City: "dhaka"})
			if err != nil {
				t.Fatalf("ListJobs: %v", err)
			}
			if len(got) != 1 || got[0].ID != dhaka.ID {
				t.Fatalf("city filter: got %d jobs, want just %d", len(got), dhaka.ID)
			}

			// Inactive rows never show in the filtered list.
			got, err = s.ListJobs(ctx, JobFilters{})
			if err != nil {
				t.Fatalf("ListJobs: %v", err)
			}
			for _, j := range got {
				if j.Title == "Hidden" {
					t.Fatal("inactive job leaked into listing")
				}
			}
			if len(got) != 2 {
				t.Fatalf("unfiltered active jobs: got %d, want 2", len(got))
			}

			// Filters combine with AND.
			got, err = s.ListJobs(ctx, JobFilters{City: "Dhaka", Category: "finance"})
			if err != nil {
				t.Fatalf("ListJobs: %v", err)
			}
			if len(got) != 0 {
				t.Fatalf("AND semantics: got %d jobs, want 0", len(got))
			}

			// Search is a case-insensitive substring over title/description/company.
			got, err = s.ListJobs(ctx, JobFilters{Search: "go dev"})
			if err != nil {
				t.Fatalf("ListJobs: %v", err)
			}
			if len(got) != 1 || got[0].ID != dhaka.ID {
				t.Fatalf("search filter: got %d jobs", len(got))
			}

			// Owner listing includes inactive rows.
			mine, err := s.ListJobsByEmployer(ctx, emp.ID)
			if err != nil {
				t.Fatalf("ListJobsByEmployer: %v", err)
			}
			if len(mine) != 3 {
				t.Fatalf("owner listing: got %d jobs, want 3", len(mine))
			}
		})
	}
}

func TestSearchTreatsWildcardsLiterally(t *testing.T) {
	for _, b := range backends(t) {
		t.Run(b.name, func(t *testing.T) {
			s := b.fresh(t)
			ctx := context.Background()

			emp := seedUser(t, s, "employer6", models.RoleEmployer)

			percent := seedJob(t, s, emp.ID, func(j *models.Job) { j.Title = "100% Remote Role" })
			seedJob(t, s, emp.ID, func(j *models.Job) { j.Title = "100 Percent Onsite Role" })
			underscore := seedJob(t, s, emp.ID, func(j *models.Job) { j.Title = "snake_case tooling" })
			seedJob(t, s, emp.ID, func(j *models.Job) { j.Title = "snakeXcase tooling" })

			// "%" in the term is a literal character, not a wildcard.
			got, err := s.ListJobs(ctx, JobFilters{Search: "100%"})
			if err != nil {
				t.Fatalf("ListJobs: %v", err)
			}
			if len(got) != 1 || got[0].ID != percent.ID {
				t.Fatalf("percent search: got %d jobs, want just %d", len(got), percent.ID)
			}

			// Same for "_".
			got, err = s.ListJobs(ctx, JobFilters{Search: "snake_case"})
			if err != nil {
				t.Fatalf("ListJobs: %v", err)
			}
			if len(got) != 1 || got[0].ID != underscore.ID {
				t.Fatalf("underscore search: got %d jobs, want just %d", len(got), underscore.ID)
			}
		})
	}
}

func TestListOrderingNewestFirst(t *testing.T) {
	for _, b := range backends(t) {
		t.Run(b.name, func(t *testing.T) {
			s := b.fresh(t)
			ctx := context.Background()

			emp := seedUser(t, s, "employer2", models.RoleEmployer)
			var ids []uint
			for i := 0; i < 3; i++ {
				j := seedJob(t, s, emp.ID, func(j *models.Job) {
					j.Title = fmt.Sprintf("Job %d", i)
				})
				ids = append(ids, j.ID)
			}

			got, err := s.ListJobs(ctx, JobFilters{})
			if err != nil {
				t.Fatalf("ListJobs: %v", err)
			}
			if len(got) != 3 {
				t.Fatalf("got %d jobs, want 3", len(got))
			}
			// Creation timestamps may collide; id descending breaks the tie, so
			// the newest id always leads.
			if got[0].ID != ids[2] || got[2].ID != ids[0] {
				t.Fatalf("order: got ids %d,%d,%d", got[0].ID, got[1].ID, got[2].ID)
			}
		})
	}
}

func TestPartialUpdateNeverUpserts(t *testing.T) {
	for _, b := range backends(t) {
		t.Run(b.name, func(t *testing.T) {
			s := b.fresh(t)
			ctx := context.Background()

			emp := seedUser(t, s, "employer3", models.RoleEmployer)
			j := seedJob(t, s, emp.ID, nil)

			newTitle := "Senior Backend Engineer"
			updated, err := s.UpdateJob(ctx, j.ID, JobUpdate{Title: &newTitle})
			if err != nil {
				t.Fatalf("UpdateJob: %v", err)
			}
			if updated.Title != newTitle {
				t.Fatalf("title not updated: %q", updated.Title)
			}
			if updated.Company != j.Company || updated.City != j.City {
				t.Fatal("untouched fields changed")
			}

			// Updating a missing id is a no-op, not an insert.
			missing, err := s.UpdateJob(ctx, 9999, JobUpdate{Title: &newTitle})
			if err != nil || missing != nil {
				t.Fatalf("UpdateJob(missing) = (%v, %v), want (nil, nil)", missing, err)
			}
			all, _ := s.ListJobsByEmployer(ctx, emp.ID)
			if len(all) != 1 {
				t.Fatalf("upsert happened: %d jobs", len(all))
			}
		})
	}
}

func TestDeleteIdempotent(t *testing.T) {
	for _, b := range backends(t) {
		t.Run(b.name, func(t *testing.T) {
			s := b.fresh(t)
			ctx := context.Background()

			emp := seedUser(t, s, "employer4", models.RoleEmployer)
			j := seedJob(t, s, emp.ID, nil)

			ok, err := s.DeleteJob(ctx, j.ID)
			if err != nil || !ok {
				t.Fatalf("first delete = (%v, %v)", ok, err)
			}
			ok, err = s.DeleteJob(ctx, j.ID)
			if err != nil || ok {
				t.Fatalf("second delete = (%v, %v), want (false, nil)", ok, err)
			}
		})
	}
}

func TestSellerOrdersJoinThroughTasks(t *testing.T) {
	for _, b := range backends(t) {
		t.Run(b.name, func(t *testing.T) {
			s := b.fresh(t)
			ctx := context.Background()

			seller := seedUser(t, s, "seller1", models.RoleFreelancer)
			other := seedUser(t, s, "seller2", models.RoleFreelancer)
			buyer := seedUser(t, s, "buyer1", models.RoleJobSeeker)

			mine := seedTask(t, s, seller.ID, nil)
			theirs := seedTask(t, s, other.ID, nil)

			for _, taskID := range []uint{mine.ID, theirs.ID} {
				o := &models.Order{TaskID: taskID, BuyerID: buyer.ID}
				if err := s.CreateOrder(ctx, o); err != nil {
					t.Fatalf("CreateOrder: %v", err)
				}
			}

			sales, err := s.ListOrdersBySeller(ctx, seller.ID)
			if err != nil {
				t.Fatalf("ListOrdersBySeller: %v", err)
			}
			if len(sales) != 1 || sales[0].TaskID != mine.ID {
				t.Fatalf("seller orders: got %d, want exactly the order on task %d", len(sales), mine.ID)
			}

			bought, err := s.ListOrdersByBuyer(ctx, buyer.ID)
			if err != nil {
				t.Fatalf("ListOrdersByBuyer: %v", err)
			}
			if len(bought) != 2 {
				t.Fatalf("buyer orders: got %d, want 2", len(bought))
			}
		})
	}
}

func TestOrderDeliveryDate(t *testing.T) {
	for _, b := range backends(t) {
		t.Run(b.name, func(t *testing.T) {
			s := b.fresh(t)
			ctx := context.Background()

			seller := seedUser(t, s, "seller3", models.RoleFreelancer)
			buyer := seedUser(t, s, "buyer2", models.RoleJobSeeker)
			task := seedTask(t, s, seller.ID, func(tk *models.Task) { tk.DeliveryTime = 5 })

			o := &models.Order{TaskID: task.ID, BuyerID: buyer.ID}
			if err := s.CreateOrder(ctx, o); err != nil {
				t.Fatalf("CreateOrder: %v", err)
			}
			if want := o.CreatedAt.AddDate(0, 0, 5); !o.DeliveryDate.Equal(want) {
				t.Fatalf("deliveryDate = %v, want %v", o.DeliveryDate, want)
			}
			if o.Status != models.OrderPending {
				t.Fatalf("status = %q, want pending", o.Status)
			}

			// Dangling task id falls back to the default window.
			dangling := &models.Order{TaskID: 9999, BuyerID: buyer.ID}
			if err := s.CreateOrder(ctx, dangling); err != nil {
				t.Fatalf("CreateOrder(dangling task): %v", err)
			}
			if want := dangling.CreatedAt.AddDate(0, 0, DefaultDeliveryDays); !dangling.DeliveryDate.Equal(want) {
				t.Fatalf("fallback deliveryDate = %v, want %v", dangling.DeliveryDate, want)
			}
		})
	}
}

func TestMessagesOldestFirst(t *testing.T) {
	for _, b := range backends(t) {
		t.Run(b.name, func(t *testing.T) {
			s := b.fresh(t)
			ctx := context.Background()

			seller := seedUser(t, s, "seller4", models.RoleFreelancer)
			buyer := seedUser(t, s, "buyer3", models.RoleJobSeeker)
			task := seedTask(t, s, seller.ID, nil)
			o := &models.Order{TaskID: task.ID, BuyerID: buyer.ID}
			if err := s.CreateOrder(ctx, o); err != nil {
				t.Fatalf("CreateOrder: %v", err)
			}

			for i := 0; i < 3; i++ {
				m := &models.Message{
					OrderID:    o.ID,
					SenderID:   buyer.ID,
					ReceiverID: seller.ID,
					Content:    fmt.Sprintf("msg %d", i),
				}
				if err := s.CreateMessage(ctx, m); err != nil {
					t.Fatalf("CreateMessage: %v", err)
				}
			}

			msgs, err := s.ListMessagesByOrder(ctx, o.ID)
			if err != nil {
				t.Fatalf("ListMessagesByOrder: %v", err)
			}
			if len(msgs) != 3 {
				t.Fatalf("got %d messages, want 3", len(msgs))
			}
			for i := 1; i < len(msgs); i++ {
				if msgs[i].ID < msgs[i-1].ID {
					t.Fatal("messages not in ascending order")
				}
			}

			between, err := s.ListMessagesBetweenUsers(ctx, seller.ID, buyer.ID)
			if err != nil {
				t.Fatalf("ListMessagesBetweenUsers: %v", err)
			}
			if len(between) != 3 {
				t.Fatalf("between users: got %d, want 3", len(between))
			}
		})
	}
}

func TestApplicationDefaultsAndStatus(t *testing.T) {
	for _, b := range backends(t) {
		t.Run(b.name, func(t *testing.T) {
			s := b.fresh(t)
			ctx := context.Background()

			emp := seedUser(t, s, "employer5", models.RoleEmployer)
			seeker := seedUser(t, s, "seeker1", models.RoleJobSeeker)
			j := seedJob(t, s, emp.ID, nil)

			a := &models.Application{JobID: j.ID, ApplicantID: seeker.ID, CoverLetter: "hi"}
			if err := s.CreateApplication(ctx, a); err != nil {
				t.Fatalf("CreateApplication: %v", err)
			}
			if a.Status != models.ApplicationPending {
				t.Fatalf("status = %q, want pending", a.Status)
			}

			accepted := models.ApplicationAccepted
			upd, err := s.UpdateApplication(ctx, a.ID, ApplicationUpdate{Status: &accepted})
			if err != nil {
				t.Fatalf("UpdateApplication: %v", err)
			}
			if upd.Status != models.ApplicationAccepted || upd.CoverLetter != "hi" {
				t.Fatalf("after update: status=%q cover=%q", upd.Status, upd.CoverLetter)
			}
		})
	}
}

// Foreign-key checks only run against the memory backend here; on Postgres the
// same violations surface through the constraint layer and TranslateError,
// which the contract suite above already relies on.
func TestMemStorageForeignKeys(t *testing.T) {
	s := NewMemStorage()
	ctx := context.Background()

	if err := s.CreateJob(ctx, &models.Job{Title: "x", EmployerID: 42, IsActive: true}); err != ErrForeignKey {
		t.Fatalf("job with missing employer: got %v, want ErrForeignKey", err)
	}
	if err := s.CreateTask(ctx, &models.Task{Title: "x", FreelancerID: 42, IsActive: true}); err != ErrForeignKey {
		t.Fatalf("task with missing freelancer: got %v, want ErrForeignKey", err)
	}
	if err := s.CreateApplication(ctx, &models.Application{JobID: 42, ApplicantID: 42}); err != ErrForeignKey {
		t.Fatalf("application with missing job: got %v, want ErrForeignKey", err)
	}
	if err := s.CreateOrder(ctx, &models.Order{TaskID: 1, BuyerID: 42}); err != ErrForeignKey {
		t.Fatalf("order with missing buyer: got %v, want ErrForeignKey", err)
	}
	if err := s.CreateMessage(ctx, &models.Message{OrderID: 42, SenderID: 1, ReceiverID: 2}); err != ErrForeignKey {
		t.Fatalf("message with missing order: got %v, want ErrForeignKey", err)
	}
}

func TestMemStorageSequentialIDs(t *testing.T) {
	s := NewMemStorage()

	var prev uint
	for i := 0; i < 3; i++ {
		u := seedUser(t, s, fmt.Sprintf("seq%d", i), models.RoleJobSeeker)
		if u.ID != prev+1 {
			t.Fatalf("id = %d, want %d", u.ID, prev+1)
		}
		prev = u.ID
	}
	if u, _ := s.GetUser(context.Background(), 1); u == nil || u.CreatedAt.IsZero() {
		t.Fatal("createdAt not stamped")
	}
}
