package remote

import (
	"context"

	"github.com/salesmatrix/sales-matrix/internal/errs"
	"github.com/salesmatrix/sales-matrix/internal/model"
)

func (Disabled) FetchUsers(context.Context) ([]model.User, error) {
	return nil, errs.ErrRemoteUnavailable
}

func (Disabled) SaveUser(context.Context, model.User) error {
	return errs.ErrRemoteUnavailable
}

func (Disabled) FetchProducts(context.Context) ([]model.Product, error) {
	return nil, errs.ErrRemoteUnavailable
}

func (Disabled) SaveProduct(context.Context, model.Product) error {
	return errs.ErrRemoteUnavailable
}

func (Disabled) SetPresence(context.Context, string) error {
	return errs.ErrRemoteUnavailable
}

func (Disabled) Register(context.Context, string, string, string) error {
	return errs.ErrRemoteUnavailable
}

func (Disabled) Login(context.Context, string, string) (LoginResult, error) {
	return LoginResult{}, errs.ErrRemoteUnavailable
}

func (Disabled) SendOTP(context.Context, string, string) error {
	return errs.ErrRemoteUnavailable
}

func (Disabled) QueryAI(context.Context, string) (string, error) {
	return "", errs.ErrRemoteUnavailable
}
