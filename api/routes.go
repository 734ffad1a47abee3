package api

// registerRoutes registers all API routes
func (s *Server) registerRoutes() {
	v1 := s.router.Group("/api/v1")
	{
		v1.GET("/status", s.handleStatus)
		v1.GET("/kinds", s.handleKinds)

		query := v1.Group("/query")
		{
			query.GET("/:kind", s.handleQuery)
			query.POST("/:kind", s.handleQuery)
		}
	}
}
