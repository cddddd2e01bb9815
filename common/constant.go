package common

const (
	// EnvProduction 生产环境
	EnvProduction = "production"
	// EnvDevelopment 开发环境
	EnvDevelopment = "development"
	// EnvWorkfDir 工作目录的环境变量名
	EnvWorkfDir = "COUNTERS_WORKDIR"
)
