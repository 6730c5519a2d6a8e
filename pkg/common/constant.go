package common

const (
	EnvKeyGoEnv string = "GO_ENV"

	EnvKeyRunIntegrationTests string = "RUN_INTEGRATION_TESTS"

	EnvKeySecDBType string = "SEC_DB_TYPE"
	EnvKeySecDbPath string = "SEC_DB_PATH"

	EnvKeySecHttpHostPort string = "SEC_HTTP_HOST_PORT"
	EnvKeySecGrpcHostPort string = "SEC_GRPC_HOST_PORT"

	EnvKeySecDefaultRate  string = "SEC_DEFAULT_RATE"
	EnvKeySecDefaultBurst string = "SEC_DEFAULT_BURST"

	EnvKeySecJwtSecret       string = "SEC_JWT_SECRET"
	EnvKeySecSessionTTL      string = "SEC_SESSION_TTL"
	EnvKeySecSampleInterval  string = "SEC_SAMPLE_INTERVAL"
	EnvKeySecDetectionConfig string = "SEC_DETECTION_CONFIG"
	EnvKeySecSeedCameras     string = "SEC_SEED_CAMERAS"
	EnvKeySecAdminEmails     string = "SEC_ADMIN_EMAILS"

	LoggerNameSecurityCore  string = "security_core"
	LoggerNameRestfulServer string = "restful_server"
	LoggerNameGrpcServer    string = "grpc_server"
	LoggerNameDetection     string = "detection"
	LoggerNameAuth          string = "auth"

	LoggerFieldCategory     string = "category"
	LoggerCategoryCamera    string = "camera"
	LoggerCategoryDetection string = "detection"
	LoggerCategoryAlert     string = "alert"
	LoggerCategoryAccount   string = "account"
	LoggerCategoryLive      string = "live"
	LoggerCategoryUpload    string = "upload"
	LoggerCategorySession   string = "session"
	LoggerCategoryIdentity  string = "identity"
	LoggerCategoryLimiter   string = "limiter"
)
