package service

// HealthStatus is the aggregated dependency health snapshot.
type HealthStatus struct {
	Status               string
	RedisStatus          string
	AircallStatus        string
	ReconcilerStatus     string
	CircuitBreakerState  string
	CircuitBreakerStatus string
}
