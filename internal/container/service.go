package container

import (
	"github.com/samber/do"
	"github.com/serroba/linkshare/internal/render"
	"github.com/serroba/linkshare/internal/shortener"
	"go.uber.org/zap"
)

// ServicePackage provides the share and show services.
func ServicePackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*shortener.ShareService, error) {
		return shortener.NewShareService(
			do.MustInvoke[shortener.Repository](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})

	do.Provide(i, func(i *do.Injector) (*shortener.ShowService, error) {
		return shortener.NewShowService(do.MustInvoke[shortener.Repository](i), render.New()), nil
	})
}
