package router

import "net/http"

// Router is the interface for mounting routes and middlewares.
type Router interface {
	http.Handler

	Get(pattern string, handler http.HandlerFunc, middlewares ...func(next http.Handler) http.Handler)
	Post(pattern string, handler http.HandlerFunc, middlewares ...func(next http.Handler) http.Handler)
	Put(pattern string, handler http.HandlerFunc, middlewares ...func(next http.Handler) http.Handler)
	Patch(pattern string, handler http.HandlerFunc, middlewares ...func(next http.Handler) http.Handler)
	Delete(pattern string, handler http.HandlerFunc, middlewares ...func(next http.Handler) http.Handler)
	Options(pattern string, handler http.HandlerFunc, middlewares ...func(next http.Handler) http.Handler)
	Use(middleware func(next http.Handler) http.Handler)
	Group(prefix string, fn func(r Router), middlewares ...func(next http.Handler) http.Handler)
}
