package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"docsign/internal/model"
	"docsign/internal/service"
	"docsign/internal/service/mocks"
	"docsign/internal/wallet"
	walletMocks "docsign/internal/wallet/mocks"
)

func TestBindSession(t *testing.T) {
	ctx := context.Background()
	w := &walletMocks.MockWallet{WalletName: "Petra"}
	w.On("ReadyState", mock.Anything).Return(wallet.Installed)
	w.On("Connect", mock.Anything).Return(wallet.Connection{Address: "0xA"}, nil)
	w.On("Disconnect", mock.Anything).Return(nil)
	s := wallet.NewSession(wallet.NewRegistry(w))

	guards := new(mocks.MockResetter)
	view := new(mocks.MockInvalidator)
	prov := new(mocks.MockProvisioner)
	provisioned := make(chan model.Identity, 1)
	prov.On("EnsureAccount", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		provisioned <- args.Get(1).(model.Identity)
	})
	guards.On("Reset", "0xa").Once()
	view.On("Invalidate", "0xa").Once()

	log, _ := test.NewNullLogger()
	unbind := service.BindSession(s, guards, view, prov, log)
	defer unbind()

	_, err := s.Connect(ctx, "Petra")
	require.NoError(t, err)

	select {
	case id := <-provisioned:
		assert.Equal(t, "0xa", id.Address)
	case <-time.After(time.Second):
		t.Fatal("identity was not provisioned on connect")
	}

	s.Disconnect(ctx)
	guards.AssertExpectations(t)
	view.AssertExpectations(t)
}
