package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"closetapi/dbhelper"
	"closetapi/models"
	"closetapi/test"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoogleAuthVerifyCreatesUser(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, &test.URLCacheMock{})

	reqBody := models.GoogleAuthSignIn{
		IdToken:  "faketoken",
		Platform: "ios",
	}
	req := test.NewJSONRequest("POST", "/auth/google/v2?verify=true", reqBody)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var response map[string]interface{}
	err := json.Unmarshal(rec.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Equal(t, true, response["new"])
	assert.NotEmpty(t, response["access_token"])
	assert.NotEmpty(t, response["refresh_token"])

	var user models.UserAccount
	result := db.Where("google_id = ?", "123googleid").First(&user)
	require.NoError(t, result.Error)
	assert.Equal(t, "fake@example.com", user.Email)
	assert.Equal(t, "STARTED_AUTH", user.Status)
	assert.Equal(t, "pictureurl", user.AvatarURL)
	assert.Equal(t, models.PlatformIOS, user.Platform)
}

func TestGoogleAuthSignUpFinishes(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, &test.URLCacheMock{})

	verifyReq := test.NewJSONRequest("POST", "/auth/google/v2?verify=true", models.GoogleAuthSignIn{
		IdToken:  "faketoken",
		Platform: "ios",
	})
	verifyRec := httptest.NewRecorder()
	e.ServeHTTP(verifyRec, verifyReq)
	require.Equal(t, http.StatusOK, verifyRec.Code, verifyRec.Body.String())

	signUpReq := test.NewJSONRequest("POST", "/auth/google/v2", models.SignUpIn{
		IdToken:   "faketoken",
		Platform:  "ios",
		Name:      "Style Maven",
		UTMSource: "instagram",
	})
	signUpRec := httptest.NewRecorder()
	e.ServeHTTP(signUpRec, signUpReq)

	require.Equal(t, http.StatusOK, signUpRec.Code, signUpRec.Body.String())

	var response map[string]interface{}
	err := json.Unmarshal(signUpRec.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Equal(t, "Style Maven", response["name"])
	assert.NotEmpty(t, response["access_token"])

	var user models.UserAccount
	result := db.Where("google_id = ?", "123googleid").First(&user)
	require.NoError(t, result.Error)
	assert.Equal(t, "FINISHED_AUTH", user.Status)
	assert.Equal(t, "Style Maven", user.Name)
	assert.Equal(t, "instagram", user.UTMSource)
}

func TestGoogleAuthVerifyExistingUser(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, &test.URLCacheMock{})

	existing := models.UserAccount{
		Name:     "Returning User",
		Email:    "fake@example.com",
		GoogleID: "123googleid",
		Platform: models.PlatformIOS,
		Status:   "FINISHED_AUTH",
	}
	db.Create(&existing)

	req := test.NewJSONRequest("POST", "/auth/google/v2?verify=true", models.GoogleAuthSignIn{
		IdToken:  "faketoken",
		Platform: "ios",
	})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var response map[string]interface{}
	err := json.Unmarshal(rec.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Equal(t, false, response["new"])
	assert.Equal(t, "Returning User", response["name"])
	assert.NotEmpty(t, response["access_token"])
}

func TestGoogleAuthInvalidPlatform(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, &test.URLCacheMock{})

	req := test.NewJSONRequest("POST", "/auth/google/v2?verify=true", models.GoogleAuthSignIn{
		IdToken:  "faketoken",
		Platform: "blackberry",
	})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRefreshTokenOk(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, &test.URLCacheMock{})
	user := test.FakeUser(db)

	refreshToken, err := GenerateRefreshToken(strconv.FormatUint(uint64(user.ID), 10))
	require.NoError(t, err)

	req := test.NewJSONRequest("POST", "/auth/refresh-token", map[string]string{
		"refresh_token": refreshToken,
	})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var response map[string]string
	err = json.Unmarshal(rec.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.NotEmpty(t, response["access_token"])
	assert.NotEmpty(t, response["refresh_token"])
}

func TestRefreshTokenEmpty(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, &test.URLCacheMock{})
	test.FakeUser(db)

	req := test.NewJSONRequest("POST", "/auth/refresh-token", map[string]string{
		"refresh_token": "",
	})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateSettings(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, &test.URLCacheMock{})
	user := test.FakeUser(db)

	req := test.NewJSONAuthRequest("POST", "/auth/settings", strconv.FormatUint(uint64(user.ID), 10), models.UserSettingsIn{
		ReceiveNotifications: false,
	})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var updated models.UserAccount
	db.First(&updated, user.ID)
	assert.False(t, updated.ReceiveNotifications)
}

func TestRegisterPushToken(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, &test.URLCacheMock{})
	user := test.FakeUser(db)

	req := test.NewJSONAuthRequest("POST", "/auth/register-push", strconv.FormatUint(uint64(user.ID), 10), models.UserPushIn{
		Token:    "new-device-token",
		Platform: "ios",
	})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var count int64
	db.Model(&models.UserPushToken{}).Where("user_account_id = ? and token = ?", user.ID, "new-device-token").Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestSetAvatar(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, &test.URLCacheMock{})
	user := test.FakeUser(db)

	req := test.NewJSONAuthRequest("POST", "/auth/set-avatar", strconv.FormatUint(uint64(user.ID), 10), SetAvatarUploadFileRequest{
		FileName: test.NewRefString("selfie.png"),
	})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var response map[string]string
	err := json.Unmarshal(rec.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.NotEmpty(t, response["upload_url"])

	var updated models.UserAccount
	db.First(&updated, user.ID)
	assert.Contains(t, updated.AvatarURL, "avatars/")
}

func TestDeleteAccountMarksUser(t *testing.T) {
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	defer cleaner()
	e := SetupServer(db, test.GoogleServiceMock{}, &test.AWSProviderMock{}, nil, nil, nil, &test.URLCacheMock{})
	user := test.FakeUser(db)

	req := test.NewJSONAuthRequest("POST", "/auth/delete-account", strconv.FormatUint(uint64(user.ID), 10), "")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var updated models.UserAccount
	db.First(&updated, user.ID)
	assert.NotNil(t, updated.ConfirmedDeleteDate)
}
