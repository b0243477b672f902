package handlers

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	loginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quizly_login_attempts_total",
			Help: "Total number of login attempts",
		},
		[]string{"status", "method"}, // status: success/failure, method: local/kakao
	)

	registrationAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quizly_registration_attempts_total",
			Help: "Total number of registration attempts",
		},
		[]string{"status", "method"},
	)

	recordSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quizly_record_submissions_total",
			Help: "Total number of graded quiz submissions",
		},
		[]string{"result"}, // correct/wrong
	)

	quizzesCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quizly_quizzes_created_total",
			Help: "Total number of quizzes created",
		},
		[]string{"type"},
	)
)

func RegisterMetrics(app *fiber.App) {
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
}

func outcome(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}
