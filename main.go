package main

import "etatcivil/internal/app"

// @title           API État Civil
// @version         1.0
// @description     Back-office de traitement des demandes d'actes d'état civil (BUNEC / MINJUSTICE).

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	app.Run()
}
