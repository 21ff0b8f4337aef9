package models

import "time"

func image(url string) Image {
	return Image{
		"url":         url,
		"description": "chart",
		"upload_date": time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC).Format(time.RFC3339),
	}
}

func strPtr(s string) *string {
	return &s
}
