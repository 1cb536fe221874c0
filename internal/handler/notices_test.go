package handler

import (
	"strings"
	"testing"

	"github.com/ait-csi/notice-board/backend/internal/domain"
	"github.com/go-playground/validator/v10"
)

func TestParsePage(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{"empty defaults to first page", "", 1, false},
		{"first page", "1", 1, false},
		{"later page", "7", 7, false},
		{"zero is invalid", "0", 0, true},
		{"negative is invalid", "-3", 0, true},
		{"not a number", "abc", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parsePage(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parsePage(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Fatalf("parsePage(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestNoticeRequestValidation(t *testing.T) {
	validate := validator.New(validator.WithRequiredStructEnabled())

	base := noticeRequest{
		Title: "Exam Notice",
		Body:  "<p>Details follow.</p>",
	}

	t.Run("valid request passes", func(t *testing.T) {
		req := base
		if err := validate.Struct(req); err != nil {
			t.Fatalf("unexpected validation error: %v", err)
		}
	})

	t.Run("overlong title is rejected", func(t *testing.T) {
		req := base
		req.Title = strings.Repeat("a", domain.NoticeTitleMaxLength+1)
		if err := validate.Struct(req); err == nil {
			t.Fatal("expected a validation error for an overlong title")
		}
	})

	t.Run("title at the maximum length passes", func(t *testing.T) {
		req := base
		req.Title = strings.Repeat("a", domain.NoticeTitleMaxLength)
		if err := validate.Struct(req); err != nil {
			t.Fatalf("unexpected validation error: %v", err)
		}
	})

	t.Run("empty title is rejected", func(t *testing.T) {
		req := base
		req.Title = ""
		if err := validate.Struct(req); err == nil {
			t.Fatal("expected a validation error for an empty title")
		}
	})

	t.Run("empty body is rejected", func(t *testing.T) {
		req := base
		req.Body = ""
		if err := validate.Struct(req); err == nil {
			t.Fatal("expected a validation error for an empty body")
		}
	})

	t.Run("attachment without file id is rejected", func(t *testing.T) {
		req := base
		req.Attachments = []struct {
			FileID   string `json:"fileID" validate:"required"`
			Filename string `json:"filename" validate:"required"`
			Filetype string `json:"filetype" validate:"required"`
		}{
			{FileID: "", Filename: "syllabus.pdf", Filetype: "application/pdf"},
		}
		if err := validate.Struct(req); err == nil {
			t.Fatal("expected a validation error for an attachment without a file id")
		}
	})
}
