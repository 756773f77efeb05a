package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "campushub"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort = "8080"

	DefaultRateLimitRequests = 30
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultSweepInterval        = 60 * time.Second
	DefaultReservationTTL       = 24 * time.Hour
	DefaultReservationTimeZone  = "UTC"
	DefaultRejectPastReservations = false

	DefaultRealtimeTopic    = "campus.resource-events"
	DefaultRealtimeDLQTopic = ""

	DefaultMaterialsDir  = "uploads"
	DefaultMaxUploadSize = 10 * 1024 * 1024 // 10MB

	DefaultEmailFromName    = "CampusHub"
	DefaultEmailFromAddress = "noreply@campushub.local"

	DefaultUserServiceURL         = "http://localhost:8081"
	DefaultUserServiceWaitTimeout = 5 * time.Second

	DefaultPaginationLimit = 100
)
