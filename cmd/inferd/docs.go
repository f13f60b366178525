package main

// General API documentation for swaggo. Run `swag init` before building
// with -tags=swagger.
//
// @title           inferd API
// @version         1.0
// @description     HTTP front end for self-hosted code/text generation.
//
// @BasePath  /
//
// @schemes http
