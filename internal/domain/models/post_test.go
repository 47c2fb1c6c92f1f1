package models_test

import (
	"strings"
	"testing"
	"time"

	"fotoblog/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPost_Validate(t *testing.T) {
	date := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		post    models.Post
		wantErr string
	}{
		{
			name: "valid",
			post: models.Post{Title: "My First Trip", Body: "sun", Date: date, Tag: "viagem"},
		},
		{
			name: "100 accented characters fit",
			post: models.Post{Title: strings.Repeat("ç", 100), Body: "sun", Date: date, Tag: strings.Repeat("ã", 50)},
		},
		{
			name:    "title over 100 characters",
			post:    models.Post{Title: strings.Repeat("ç", 101), Body: "sun", Date: date},
			wantErr: "title must be 100 characters or less",
		},
		{
			name:    "tag over 50 characters",
			post:    models.Post{Title: "t", Body: "sun", Date: date, Tag: strings.Repeat("ã", 51)},
			wantErr: "tag must be 50 characters or less",
		},
		{
			name:    "blank body",
			post:    models.Post{Title: "t", Body: "   ", Date: date},
			wantErr: "body is required",
		},
		{
			name:    "missing date",
			post:    models.Post{Title: "t", Body: "sun"},
			wantErr: "date is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.post.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.True(t, models.IsValidationError(err))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestPhoto_Validate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, models.NewPhoto(1, "My_First_Trip", "20240501120000_1.jpg").Validate())
	})

	t.Run("display name over 100 characters", func(t *testing.T) {
		err := models.NewPhoto(1, "dir", strings.Repeat("a", 101)).Validate()
		assert.True(t, models.IsValidationError(err))
	})

	t.Run("path escaping the root", func(t *testing.T) {
		err := models.NewPhoto(1, "..", "a.jpg").Validate()
		assert.True(t, models.IsValidationError(err))
	})
}

func TestParsePostDate(t *testing.T) {
	got, err := models.ParsePostDate(" 2024-05-01 ")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), got)

	_, err = models.ParsePostDate("01/05/2024")
	assert.True(t, models.IsValidationError(err))
}
