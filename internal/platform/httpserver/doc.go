// Package httpserver exposes the car-parts modules over a chi router.
//
// @title Car Parts API
// @version 1.0
// @description Marketplace backend for car parts: catalog, orders, admin and profile.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package httpserver
