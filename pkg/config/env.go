package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvJWTSecret = "JWT_SECRET"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvSweepInterval          = "SWEEP_INTERVAL"
	EnvReservationTTL         = "RESERVATION_TTL"
	EnvReservationTimeZone    = "RESERVATION_TIMEZONE"
	EnvRejectPastReservations = "RESERVATION_REJECT_PAST"

	EnvRealtimeTopic    = "REALTIME_TOPIC"
	EnvRealtimeDLQTopic = "REALTIME_DLQ_TOPIC"

	EnvMaterialsDir  = "MATERIALS_DIR"
	EnvMaxUploadSize = "MAX_UPLOAD_SIZE"

	EnvSendGridKey      = "SENDGRID_API_KEY"
	EnvEmailFromName    = "EMAIL_FROM_NAME"
	EnvEmailFromAddress = "EMAIL_FROM_ADDRESS"

	EnvUserServiceURL         = "USER_SERVICE_URL"
	EnvUserServiceWaitTimeout = "USER_SERVICE_WAIT_TIMEOUT"
)
