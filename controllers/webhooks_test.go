package controllers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"closetapi/dbhelper"
	"closetapi/models"
	"closetapi/test"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebhookInitialPurchase(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, &test.URLCacheMock{})
	user := test.FakeUser(db)

	data := map[string]interface{}{
		"event": map[string]interface{}{
			"app_id":               "app70fd013e95",
			"app_user_id":          fmt.Sprint(user.ID),
			"country_code":         "US",
			"environment":          "SANDBOX",
			"event_timestamp_ms":   1715405366686,
			"expiration_at_ms":     1715412566686,
			"id":                   "791C890E-B8AD-46C9-8290-13EAF5F14C9F",
			"original_app_user_id": "7f680253-003b-4073-b4f3-5d1df7cd9a67",
			"period_type":          "NORMAL",
			"product_id":           "prostandard",
			"purchased_at_ms":      1715405366686,
			"store":                "PLAY_STORE",
			"type":                 "INITIAL_PURCHASE",
		},
	}
	req := test.NewJSONAuthRequestCustomAuth("POST", "/webhooks/rc-subscription-webhooks", fmt.Sprintf("Bearer %s", "fake"), data)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var updated models.UserAccount
	db.First(&updated, user.ID)
	require.NotNil(t, updated.Subscription)
	assert.Equal(t, string(models.Pro), *updated.Subscription)
	assert.NotNil(t, updated.ExpirationDate)
}

func TestWebhookExpiration(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, &test.URLCacheMock{})
	user := test.FakeUser(db)
	pro := string(models.Pro)
	user.Subscription = &pro
	db.Save(user)

	data := map[string]interface{}{
		"event": map[string]interface{}{
			"app_user_id":       fmt.Sprint(user.ID),
			"type":              "EXPIRATION",
			"expiration_reason": "UNSUBSCRIBE",
		},
	}
	req := test.NewJSONAuthRequestCustomAuth("POST", "/webhooks/rc-subscription-webhooks", fmt.Sprintf("Bearer %s", "fake"), data)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var updated models.UserAccount
	db.First(&updated, user.ID)
	require.NotNil(t, updated.Subscription)
	assert.Equal(t, string(models.Free), *updated.Subscription)
}

func TestWebhookBadToken(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, &test.URLCacheMock{})
	user := test.FakeUser(db)

	data := map[string]interface{}{
		"event": map[string]interface{}{
			"app_user_id": fmt.Sprint(user.ID),
			"type":        "INITIAL_PURCHASE",
		},
	}
	req := test.NewJSONAuthRequestCustomAuth("POST", "/webhooks/rc-subscription-webhooks", "Bearer wrongtoken", data)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWebhookTransferSkips(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, &test.URLCacheMock{})
	user := test.FakeUser(db)

	data := map[string]interface{}{
		"event": map[string]interface{}{
			"app_user_id": fmt.Sprint(user.ID),
			"type":        "TRANSFER",
		},
	}
	req := test.NewJSONAuthRequestCustomAuth("POST", "/webhooks/rc-subscription-webhooks", fmt.Sprintf("Bearer %s", "fake"), data)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var updated models.UserAccount
	db.First(&updated, user.ID)
	assert.Nil(t, updated.Subscription)
}
