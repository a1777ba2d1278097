/*
	Copyright (C) CESS. All rights reserved.
	Copyright (C) Cumulus Encrypted Storage System. All rights reserved.

	SPDX-License-Identifier: Apache-2.0
*/

package node

import (
	"strings"
	"time"

	"github.com/CESSProject/kvcache/configs"
	jwt "github.com/dgrijalva/jwt-go"
	"github.com/pkg/errors"
)

type CustomClaims struct {
	Subject string `json:"sub_name"`
	jwt.StandardClaims
}

// NewToken issues an HS256 token for subject valid for ttl.
func NewToken(secret, subject string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("empty secret")
	}
	now := time.Now()
	claims := CustomClaims{
		Subject: subject,
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  now.Unix(),
			NotBefore: now.Unix(),
			ExpiresAt: now.Add(ttl).Unix(),
			Issuer:    configs.Name,
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// verifyToken parses a bearer token and returns its subject.
func verifyToken(secret, header string) (string, error) {
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if token == "" {
		return "", errors.New(ERR_Authorization)
	}
	jwttoken, err := jwt.ParseWithClaims(
		token,
		&CustomClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.Errorf("unexpected signing method %v", token.Header["alg"])
			}
			return []byte(secret), nil
		})
	if err != nil {
		return "", errors.Wrap(err, ERR_InvalidToken)
	}
	claims, ok := jwttoken.Claims.(*CustomClaims)
	if !ok || !jwttoken.Valid {
		return "", errors.New(ERR_InvalidToken)
	}
	return claims.Subject, nil
}
