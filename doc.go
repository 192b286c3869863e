// Package main provides the entry point for the GoMediaVault console.
// It initializes and runs a web server using the Fiber framework that lets
// teams browse a media library, register and analyze assets, and review
// access requests for restricted content. The application uses gorm for data
// persistence and enforces a role-based visibility model throughout.
package main
