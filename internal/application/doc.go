// Package application provides application initialization and dependency wiring.
// It resolves the configuration snapshot before anything else is built and then
// derives the role logger, broker connector and task rate limiters from it,
// keeping the main package focused on CLI parsing and orchestration.
package application
