package utils

import "testing"

func TestIsAllowedOrigin(t *testing.T) {
	allowed := []string{
		"http://localhost:3000",
		"http://raspberrypi.local",
		"http://mediabox",
		"http://192.168.1.20:8080",
		"http://10.0.0.5",
		"http://127.0.0.1",
		"http://169.254.10.1",
	}
	for _, origin := range allowed {
		if !IsAllowedOrigin(origin) {
			t.Errorf("IsAllowedOrigin(%q) = false, want true", origin)
		}
	}

	denied := []string{
		"",
		"https://evil.example.com",
		"http://8.8.8.8",
		"not a url",
	}
	for _, origin := range denied {
		if IsAllowedOrigin(origin) {
			t.Errorf("IsAllowedOrigin(%q) = true, want false", origin)
		}
	}
}
