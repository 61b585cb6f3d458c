package main

import (
	"FacultyQuizPortal/internal/bootstrap"
	pkg "FacultyQuizPortal/pkg/routes"

	"go.uber.org/fx"
)

func main() {
	bootstrap.Loadenv()
	app := fx.New(
		pkg.EchoModules,
		pkg.FxLogger(),
	)

	app.Run()
}
