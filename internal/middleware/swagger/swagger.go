package swagger

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/iwtcode/bambuService/docs"
)

// Config содержит настройки для Swagger
type Config struct {
	Enabled bool
	Path    string
}

// Setup инициализирует маршруты Swagger
func Setup(r *gin.Engine, cfg *Config) {
	if cfg == nil || !cfg.Enabled {
		return
	}
	path := cfg.Path
	if path == "" {
		path = "/swagger"
	}
	r.GET(path+"/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
