package firebase

import (
	"context"
	"os"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"
)

// InitAuth initializes the Firebase application and returns its auth
// client, used to verify ID tokens issued to mobile clients.
func InitAuth(ctx context.Context, credentialsPath string) (*auth.Client, error) {
	if credentialsPath == "" {
		return nil, errors.New("firebase.InitAuth: credentials path not provided")
	}

	if _, err := os.Stat(credentialsPath); err != nil {
		return nil, errors.Wrapf(err, "firebase.InitAuth: credentials file %s", credentialsPath)
	}

	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsPath))
	if err != nil {
		return nil, errors.Wrap(err, "firebase.InitAuth.NewApp")
	}

	client, err := app.Auth(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "firebase.InitAuth.Auth")
	}

	logrus.WithField("layer", "firebase").Info("firebase auth client initialized")
	return client, nil
}
