package main

import (
	"maa.plus/backend-next/cmd/app"
)

// @title          MAA Copilot API
// @version        1.0.0
// @description    Backend for the MAA Copilot sharing platform.
// @license.name   AGPL-3.0
// @license.url    https://www.gnu.org/licenses/agpl-3.0.en.html
// @BasePath       /api
func main() {
	app.Run()
}
