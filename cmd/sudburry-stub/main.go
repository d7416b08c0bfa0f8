// Command sudburry-stub is a single-process stand-in for the Sudburry auth
// and business services, implementing the endpoints the client SDK consumes.
// It exists so SDK consumers can develop and demo offline; state lives in
// memory and is gone on exit.
package main

import (
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"sudburry.com/client/logging"
)

type user struct {
	Name         string
	Email        string
	PasswordHash string
	Role         string
	Profile      map[string]any
}

type job struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	Salary      string `json:"salary"`
	Description string `json:"description"`
	Owner       string `json:"-"`
}

type application struct {
	ID             string  `json:"id"`
	JobID          string  `json:"jobId"`
	CandidateEmail string  `json:"candidateEmail"`
	Status         string  `json:"status"`
	MatchPercent   float64 `json:"matchPercent"`
}

type stub struct {
	mu           sync.Mutex
	secret       []byte
	users        map[string]*user
	jobs         []*job
	applications []*application
	log          *zap.Logger
}

func main() {
	logger, err := logging.NewLogger(os.Getenv("LOG_LEVEL"))
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	secret := os.Getenv("STUB_JWT_SECRET")
	if secret == "" {
		secret = "sudburry-stub-secret"
	}

	s := &stub{
		secret: []byte(secret),
		users:  make(map[string]*user),
		log:    logger,
	}
	s.seed()

	app := fiber.New(fiber.Config{DisableStartupMessage: true})

	app.Post("/signin", s.signIn)
	app.Post("/register", s.register)
	app.Post("/logout", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	api := app.Group("/api", s.requireBearer)
	api.Get("/jobseeker/profile", s.getProfile)
	api.Post("/jobseeker/profile", s.saveProfile)
	api.Put("/jobseeker/profile", s.saveProfile)
	api.Post("/jobseeker/resume", s.uploadResume)

	api.Get("/v1/jobs/job", s.listJobs)
	api.Post("/v1/jobs/:id/apply-with-profile", s.apply)
	api.Get("/v1/jobs/employer/jobs", s.employerJobs)
	api.Post("/v1/jobs/employer/jobs", s.postJob)
	api.Put("/v1/jobs/employer/jobs/:id", s.updateJob)
	api.Delete("/v1/jobs/employer/jobs/:id", s.deleteJob)
	api.Get("/v1/jobs/employer/jobs/:id/applications", s.jobApplications)
	api.Put("/v1/jobs/employer/applications/:id/status", s.updateApplicationStatus)
	api.Get("/v1/jobs/employer/stats", s.stats)
	api.Post("/v1/assistant/chat", s.assistant)

	addr := os.Getenv("STUB_ADDR")
	if addr == "" {
		addr = ":8790"
	}
	logger.Info("stub backend listening", zap.String("addr", addr))
	if err := app.Listen(addr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func (s *stub) seed() {
	hash, _ := bcrypt.GenerateFromPassword([]byte("password1"), bcrypt.DefaultCost)
	s.users["acme@example.com"] = &user{
		Name:         "Acme Hiring",
		Email:        "acme@example.com",
		PasswordHash: string(hash),
		Role:         "EMPLOYER",
	}
	s.jobs = []*job{
		{ID: uuid.NewString(), Title: "Backend Engineer", Company: "Acme", Location: "Sudbury", Salary: "90k-120k", Description: "Go services", Owner: "acme@example.com"},
		{ID: uuid.NewString(), Title: "Data Analyst", Company: "Acme", Location: "Remote", Salary: "70k-95k", Description: "Dashboards", Owner: "acme@example.com"},
	}
}

func (s *stub) mint(u *user) (string, error) {
	claims := jwt.MapClaims{
		"sub":   u.Email,
		"email": u.Email,
		"role":  u.Role,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(24 * time.Hour).Unix(),
		"jti":   uuid.NewString(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *stub) requireBearer(c *fiber.Ctx) error {
	header := c.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "missing bearer token"})
	}
	token, err := jwt.Parse(strings.TrimPrefix(header, "Bearer "), func(t *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "invalid token"})
	}
	if claims, ok := token.Claims.(jwt.MapClaims); ok {
		email, _ := claims["email"].(string)
		c.Locals("email", email)
	}
	return c.Next()
}

func (s *stub) signIn(c *fiber.Ctx) error {
	username := c.Query("username")
	password := c.Query("password")

	s.mu.Lock()
	u := s.users[username]
	s.mu.Unlock()
	if u == nil || bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "invalid credentials"})
	}
	token, err := s.mint(u)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "could not mint token"})
	}
	// The real auth service answers sign-in with the raw token text.
	return c.SendString(token)
}

func (s *stub) register(c *fiber.Ctx) error {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := c.BodyParser(&req); err != nil || req.Email == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid registration"})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[req.Email]; exists {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "email already registered"})
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "could not hash password"})
	}
	role := req.Role
	if role == "" {
		role = "JOBSEEKER"
	}
	u := &user{Name: req.Name, Email: req.Email, PasswordHash: string(hash), Role: role}
	s.users[req.Email] = u

	token, err := s.mint(u)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "could not mint token"})
	}
	return c.JSON(fiber.Map{"token": fiber.Map{"token": token, "role": role}})
}

func (s *stub) getProfile(c *fiber.Ctx) error {
	email := c.Query("email")
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[email]; ok && u.Profile != nil {
		return c.JSON(u.Profile)
	}
	return c.SendStatus(fiber.StatusOK)
}

func (s *stub) saveProfile(c *fiber.Ctx) error {
	email := c.Query("email")
	var profile map[string]any
	if err := c.BodyParser(&profile); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid profile"})
	}
	profile["email"] = email

	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[email]
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "unknown account"})
	}
	u.Profile = profile
	return c.JSON(profile)
}

func (s *stub) uploadResume(c *fiber.Ctx) error {
	if _, err := c.FormFile("resume"); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "resume file missing"})
	}
	return c.JSON(fiber.Map{"uploaded": true})
}

func (s *stub) listJobs(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]fiber.Map, 0, len(s.jobs))
	for _, j := range s.jobs {
		out = append(out, fiber.Map{
			"id": j.ID, "title": j.Title, "company": j.Company,
			"location": j.Location, "salary": j.Salary,
			"description": j.Description, "matchScore": 72.5,
		})
	}
	return c.JSON(out)
}

func (s *stub) apply(c *fiber.Ctx) error {
	email, _ := c.Locals("email").(string)
	jobID := c.Params("id")

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, j := range s.jobs {
		if j.ID == jobID {
			s.applications = append(s.applications, &application{
				ID: uuid.NewString(), JobID: jobID, CandidateEmail: email,
				Status: "PENDING", MatchPercent: 72.5,
			})
			return c.JSON(fiber.Map{"applied": true})
		}
	}
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "job not found"})
}

func (s *stub) employerJobs(c *fiber.Ctx) error {
	email, _ := c.Locals("email").(string)
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]fiber.Map, 0)
	for _, j := range s.jobs {
		if j.Owner != email {
			continue
		}
		applicants := 0
		for _, a := range s.applications {
			if a.JobID == j.ID {
				applicants++
			}
		}
		out = append(out, fiber.Map{
			"id": j.ID, "title": j.Title, "location": j.Location,
			"salary": j.Salary, "description": j.Description,
			"status": "OPEN", "applicants": applicants,
		})
	}
	return c.JSON(out)
}

func (s *stub) postJob(c *fiber.Ctx) error {
	email, _ := c.Locals("email").(string)
	j := &job{Owner: email}
	if err := c.BodyParser(j); err != nil || j.Title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid posting"})
	}
	j.ID = uuid.NewString()

	s.mu.Lock()
	s.jobs = append(s.jobs, j)
	s.mu.Unlock()
	return c.JSON(j)
}

func (s *stub) updateJob(c *fiber.Ctx) error {
	jobID := c.Params("id")
	var req job
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid posting"})
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, j := range s.jobs {
		if j.ID == jobID {
			j.Title, j.Location, j.Salary, j.Description = req.Title, req.Location, req.Salary, req.Description
			return c.JSON(j)
		}
	}
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "job not found"})
}

func (s *stub) deleteJob(c *fiber.Ctx) error {
	jobID := c.Params("id")
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, j := range s.jobs {
		if j.ID == jobID {
			s.jobs = append(s.jobs[:i], s.jobs[i+1:]...)
			return c.SendStatus(fiber.StatusOK)
		}
	}
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "job not found"})
}

func (s *stub) jobApplications(c *fiber.Ctx) error {
	jobID := c.Params("id")
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*application, 0)
	for _, a := range s.applications {
		if a.JobID == jobID {
			out = append(out, a)
		}
	}
	return c.JSON(out)
}

func (s *stub) updateApplicationStatus(c *fiber.Ctx) error {
	appID := c.Params("id")
	status := c.Query("status")
	if status == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "status query parameter required"})
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.applications {
		if a.ID == appID {
			a.Status = status
			return c.JSON(a)
		}
	}
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "application not found"})
}

func (s *stub) stats(c *fiber.Ctx) error {
	email, _ := c.Locals("email").(string)
	s.mu.Lock()
	defer s.mu.Unlock()
	totalJobs, totalApps, accepted := 0, 0, 0
	for _, j := range s.jobs {
		if j.Owner != email {
			continue
		}
		totalJobs++
		for _, a := range s.applications {
			if a.JobID == j.ID {
				totalApps++
				if a.Status == "ACCEPTED" {
					accepted++
				}
			}
		}
	}
	rate := 0.0
	if totalApps > 0 {
		rate = float64(accepted) / float64(totalApps)
	}
	return c.JSON(fiber.Map{
		"totalJobs":         totalJobs,
		"totalApplications": totalApps,
		"acceptanceRate":    rate,
	})
}

func (s *stub) assistant(c *fiber.Ctx) error {
	var req struct {
		Message string `json:"message"`
	}
	if err := c.BodyParser(&req); err != nil || req.Message == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "message required"})
	}
	return c.JSON(fiber.Map{"reply": "Thanks for your message. A real assistant answers in production; this stub just echoes: " + req.Message})
}
