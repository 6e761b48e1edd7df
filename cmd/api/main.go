// @title           AI Todo App API
// @version         1.0.0
// @description     Todo CRUD with AI subtask generation and cached translations.
// @host            localhost:8000
// @BasePath        /api/v1
package main

func main() {
	Execute()
}
