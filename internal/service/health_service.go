package service

import "context"

const ServiceName = "qwery-ai"

// Pinger checks that the database can hand out a connection.
type Pinger interface {
	Ping(ctx context.Context) error
}

type PingerFunc func(ctx context.Context) error

func (f PingerFunc) Ping(ctx context.Context) error { return f(ctx) }

type IHealthService interface {
	// Ready borrows one database connection and returns it; the error text is
	// surfaced to the caller verbatim.
	Ready(ctx context.Context) error
}

type healthService struct {
	pinger Pinger
}

func NewHealthService(pinger Pinger) IHealthService {
	return &healthService{pinger: pinger}
}

func (s *healthService) Ready(ctx context.Context) error {
	return s.pinger.Ping(ctx)
}
