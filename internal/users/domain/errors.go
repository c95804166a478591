package domain

import (
	"fmt"

	"github.com/talenthub/portal-backend/internal/store"
)

var ErrUserNotFound = fmt.Errorf("user profile %w", store.ErrNotFound)
