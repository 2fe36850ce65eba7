package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	staffClockInsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "staff_clock_ins_total",
		Help: "Staff clock-ins by resulting attendance status.",
	}, []string{"status"})

	memberCheckInsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "member_check_ins_total",
		Help: "Member check-ins by method.",
	}, []string{"method"})
)
