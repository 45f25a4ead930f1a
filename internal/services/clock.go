package services

import (
	"time"

	"github.com/IpsitaPrusty/smart-home-website/domain"
)

// SystemClock implements domain.Clock with the wall clock.
type SystemClock struct{}

func NewSystemClock() domain.Clock { return SystemClock{} }

func (SystemClock) Now() time.Time { return time.Now() }
