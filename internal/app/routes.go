package app

import (
	"net/http"

	"github.com/bilalsxadad1231231/to-do-fullstack-ai/docs"
	"github.com/bilalsxadad1231231/to-do-fullstack-ai/internal/config"
	"github.com/bilalsxadad1231231/to-do-fullstack-ai/internal/dto"
	"github.com/bilalsxadad1231231/to-do-fullstack-ai/internal/handlers"
	"github.com/bilalsxadad1231231/to-do-fullstack-ai/internal/logging"
	"github.com/bilalsxadad1231231/to-do-fullstack-ai/internal/service"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/swag"
)

// NewRouter builds the engine with middleware and all routes.
func NewRouter(cfg config.Config, log logging.Logger, svc *service.TodoService) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(requestID(), accessLog(log), recovery(log), corsMiddleware(cfg.CORS, log))

	Setup(r, cfg, svc)
	return r
}

// Setup registers all routes on the given engine.
func Setup(r *gin.Engine, cfg config.Config, svc *service.TodoService) {
	docs.SwaggerInfo.Version = cfg.App.Version
	docs.SwaggerInfo.BasePath = cfg.App.APIPrefix

	sys := handlers.NewSystemHandler(cfg.App.Version, svc.Ping)
	r.GET("/", sys.Root)
	r.GET("/health", sys.Health)
	r.GET("/version", sys.Version)
	r.GET("/swagger-doc.json", swaggerDocHandler())
	r.GET("/swagger", func(c *gin.Context) { c.Redirect(http.StatusFound, "/swagger/index.html") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("/swagger-doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
	))

	api := r.Group(cfg.App.APIPrefix)
	h := handlers.NewTodoHandler(svc)
	registerTodoRoutes(api, h)
	registerSubtaskRoutes(api, h)
	registerTranslationRoutes(api, h)
}

func swaggerDocHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := swag.ReadDoc(docs.SwaggerInfo.InstanceName())
		if err != nil {
			c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
			return
		}
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(doc))
	}
}

func registerTodoRoutes(api *gin.RouterGroup, h *handlers.TodoHandler) {
	api.GET("/todos", h.List)
	api.POST("/todos", h.Create)
	api.GET("/todos/:id", h.GetByID)
	api.PUT("/todos/:id", h.Update)
	api.DELETE("/todos/:id", h.Delete)
	api.PATCH("/todos/:id/toggle", h.Toggle)
}

func registerSubtaskRoutes(api *gin.RouterGroup, h *handlers.TodoHandler) {
	api.POST("/todos/:id/generate", h.Generate)
	api.GET("/todos/:id/subtasks", h.ListSubtasks)
	api.PUT("/subtasks/:id", h.UpdateSubtask)
}

func registerTranslationRoutes(api *gin.RouterGroup, h *handlers.TodoHandler) {
	api.POST("/todos/:id/translate", h.TranslateTodo)
	api.GET("/todos/:id/translations", h.ListTranslations)
	api.POST("/translate", h.TranslateText)
	api.POST("/todos/translate", h.TranslateText)
}
