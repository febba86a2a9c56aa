package middleware

import (
	"context"

	"firebase.google.com/go/v4/auth"
	pkgerrors "github.com/pkg/errors"

	"github.com/anonto42/campus-social/backend/internal/models"
)

//go:generate mockgen -destination=./mock/firebase.go -package=mock -source=firebase.go

// IDTokenVerifier is the part of *auth.Client used here
type IDTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// UserResolver maps a Firebase uid to the local user
type UserResolver interface {
	GetUserByFirebaseUID(ctx context.Context, firebaseUID string) (*models.User, error)
}

// FirebaseVerifier accepts Firebase ID tokens of users linked to a local account
type FirebaseVerifier struct {
	client IDTokenVerifier
	users  UserResolver
}

func NewFirebaseVerifier(client IDTokenVerifier, users UserResolver) *FirebaseVerifier {
	return &FirebaseVerifier{client: client, users: users}
}

func (v *FirebaseVerifier) Verify(ctx context.Context, idToken string) (uint, error) {
	token, err := v.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return 0, pkgerrors.Wrap(err, "firebase.Verify.VerifyIDToken")
	}

	user, err := v.users.GetUserByFirebaseUID(ctx, token.UID)
	if err != nil {
		return 0, pkgerrors.Wrap(err, "firebase.Verify.GetUserByFirebaseUID")
	}
	return user.ID, nil
}

// Verifiers tries each verifier in turn and returns the first success
type Verifiers []TokenVerifier

func (vs Verifiers) Verify(ctx context.Context, token string) (uint, error) {
	err := pkgerrors.New("no token verifier configured")
	for _, v := range vs {
		var id uint
		if id, err = v.Verify(ctx, token); err == nil {
			return id, nil
		}
	}
	return 0, err
}
