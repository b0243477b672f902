package discovery

import "testing"

func TestRegistration(t *testing.T) {
	sr, err := NewServiceRegistry("127.0.0.1:8500", "quizly-server", "quizly-server-1", "10.0.0.5", "5000")
	if err != nil {
		t.Fatalf("NewServiceRegistry failed: %v", err)
	}

	reg, err := sr.Registration()
	if err != nil {
		t.Fatalf("Registration failed: %v", err)
	}
	if reg.Port != 5000 || reg.ID != "quizly-server-1" || reg.Address != "10.0.0.5" {
		t.Errorf("unexpected registration: %+v", reg)
	}
	if reg.Check == nil || reg.Check.HTTP != "http://10.0.0.5:5000/health" {
		t.Errorf("unexpected health check: %+v", reg.Check)
	}

	bad, _ := NewServiceRegistry("127.0.0.1:8500", "quizly-server", "id", "host", "http")
	if _, err := bad.Registration(); err == nil {
		t.Errorf("expected error for non-numeric port")
	}
}
