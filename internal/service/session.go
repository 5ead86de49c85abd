package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"docsign/internal/wallet"
)

// Resetter releases the in-flight guards of an identity.
type Resetter interface {
	Reset(identity string)
}

// BindSession keeps the services in step with the wallet session: a new
// connection is provisioned in the background, a disconnect clears the
// guards and cached registry reads of the old identity. The returned
// function detaches the binding.
func BindSession(s *wallet.Session, guards Resetter, view Invalidator, prov Provisioner, log logrus.FieldLogger) func() {
	log = log.WithField("component", "session")
	return s.Subscribe(func(ev wallet.Event) {
		switch ev.Kind {
		case wallet.Connected:
			log.WithFields(logrus.Fields{
				"event":   "wallet_connected",
				"address": ev.Identity.Address,
				"wallet":  ev.Identity.Wallet,
			}).Info("wallet connected")
			if prov != nil {
				go prov.EnsureAccount(context.Background(), ev.Identity)
			}
		case wallet.Disconnected:
			log.WithFields(logrus.Fields{
				"event":   "wallet_disconnected",
				"address": ev.Identity.Address,
			}).Info("wallet disconnected")
			guards.Reset(ev.Identity.Address)
			view.Invalidate(ev.Identity.Address)
		}
	})
}
