package controller

import (
	"go.uber.org/fx"

	controllermeta "maa.plus/backend-next/internal/controller/meta"
	controllerv1 "maa.plus/backend-next/internal/controller/v1"
)

func Module() fx.Option {
	return fx.Module("controller",
		controllerv1.Module(),
		controllermeta.Module(),
	)
}
