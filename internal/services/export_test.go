package services

import "time"

func SetOrderClock(s *OrderService, now func() time.Time) { s.now = now }

func SetOrderIDGenerator(s *OrderService, gen func(time.Time) string) { s.newID = gen }

func SetAuthClock(s *AuthService, now func() time.Time) { s.now = now }
