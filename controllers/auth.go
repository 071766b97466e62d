package controllers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"closetapi/models"
	"closetapi/services"

	firebase "firebase.google.com/go/v4"
	apple "github.com/Timothylock/go-signin-with-apple/apple"
	"github.com/getsentry/sentry-go"
	"github.com/golang-jwt/jwt/v4"
	echojwt "github.com/labstack/echo-jwt"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

const defaultAvatarURL = "https://pub-df730af6a36c46a58d6d948f149dae31.r2.dev/user-circle.png"

type SetAvatarUploadFileRequest struct {
	FileName *string `json:"file_name" validate:"required,max=1000"`
}

type AuthController struct {
	Google      services.GoogleServiceProvider
	FirebaseApp *firebase.App
	AWSService  services.AWSServiceProvider
}

func (m *AuthController) ProfileRoutes(g *echo.Group) {
	g.POST("/google/v2", func(c echo.Context) (err error) {
		time.Sleep(2 * time.Second)
		googleCreds := new(models.GoogleAuthSignIn)

		signUp := new(models.SignUpIn)
		if c.QueryParam("testblock") == "true" {
			fmt.Println("Test block is enabled, returning 403")
			return c.JSON(http.StatusForbidden, map[string]interface{}{"message": "Sorry, your access is blocked"})
		}
		if c.QueryParam("verify") == "true" {
			if err := c.Bind(googleCreds); err != nil {
				return err
			}
			if !models.ValidatePlatformRaw(googleCreds.Platform) {
				return c.JSON(http.StatusForbidden, map[string]interface{}{"message": "Please provide proper platform parameter"})
			}

			if err = c.Validate(googleCreds); err != nil {
				return err
			}
		} else {
			if err := c.Bind(signUp); err != nil {
				return err
			}

			if !models.ValidatePlatformRaw(signUp.Platform) {
				return c.JSON(http.StatusForbidden, map[string]interface{}{"message": "Please provide proper platform parameter"})
			}

			if err = c.Validate(signUp); err != nil {
				return err
			}
		}
		idToken := IfThenElse(googleCreds.IdToken == "", signUp.IdToken, googleCreds.IdToken).(string)
		platform := IfThenElse(googleCreds.Platform == "", signUp.Platform, googleCreds.Platform).(string)
		payload, err := m.Google.ValidateIdToken(context.Background(), idToken, os.Getenv("GOOGLE_CLIENT_ID"))

		if err != nil {
			fmt.Println(err)
			return c.JSON(http.StatusForbidden, map[string]interface{}{"message": "Couldn't verify credentials"})
		}
		sub, ok := payload.Claims["sub"]
		if !ok {
			sentry.CaptureMessage(fmt.Sprintf("Error when fetching user data %s", payload.Claims))
			return c.JSON(http.StatusForbidden, map[string]interface{}{"message": "Couldn't verify credentials"})
		}
		var googleId string = sub.(string)

		googleEmail, ok := payload.Claims["email"]
		if !ok {
			sentry.CaptureMessage(fmt.Sprintf("Error when fetching user data email %s", payload.Claims))
			return c.JSON(http.StatusForbidden, map[string]interface{}{"message": "Couldn't verify credentials"})
		}

		pictureUrl, ok := payload.Claims["picture"].(string)
		googleName, ok := payload.Claims["name"].(string)

		db := c.Get("__db").(*gorm.DB)
		var user *models.UserAccount
		r := db.Where("google_id = ?", googleId).Limit(1).Find(&user)
		if r.Error != nil {
			return c.JSON(http.StatusInternalServerError, map[string]interface{}{"message": "Internal server error"})
		}
		fmt.Println(r)
		fmt.Println(c.QueryParam("verify"))
		if c.QueryParam("verify") == "true" {
			if r.RowsAffected > 0 {
				if user.Banned {
					return echo.ErrForbidden
				}
				refreshToken, err := GenerateRefreshToken(fmt.Sprint(user.ID))
				if err != nil {
					fmt.Println(err)
					return echo.ErrInternalServerError
				}

				return c.JSON(http.StatusOK, map[string]interface{}{
					"id":           user.ID,
					"name":         user.Name,
					"subscription": user.Subscription,
					"email":        googleEmail, "new": user.Status == "STARTED_AUTH", "avatar": user.AvatarURL,
					"access_token":  GenerateUserToken(fmt.Sprint(user.ID), c, 72),
					"refresh_token": refreshToken,
				})
			} else {
				r := db.Where("email = ?", googleEmail).Limit(1).Find(&user)
				if r.RowsAffected > 0 {
					user.AvatarURL = pictureUrl
					user.GoogleID = googleId
					user.Name = googleName
					user.LastIp = c.RealIP()
					user.Platform = models.ScanPlatform(platform)
					db.Save(&user)
					refreshToken, err := GenerateRefreshToken(fmt.Sprint(user.ID))
					if err != nil {
						fmt.Println(err)
						return echo.ErrInternalServerError
					}

					return c.JSON(http.StatusOK, map[string]interface{}{
						"email": googleEmail,
						"new":   user.Status == "STARTED_AUTH", "avatar": user.AvatarURL,
						"name":          googleName,
						"access_token":  GenerateUserToken(fmt.Sprint(user.ID), c, 72),
						"refresh_token": refreshToken,
					})
				} else {

					user = &models.UserAccount{
						Name:      googleName,
						Email:     googleEmail.(string),
						GoogleID:  googleId,
						Platform:  models.ScanPlatform(platform),
						LastIp:    c.RealIP(),
						Status:    "STARTED_AUTH",
						AvatarURL: pictureUrl,
					}
					db.Create(&user)
				}
			}
			refreshToken, err := GenerateRefreshToken(fmt.Sprint(user.ID))
			if err != nil {
				fmt.Println(err)
				return echo.ErrInternalServerError
			}

			// this i guess on new auth only
			return c.JSON(http.StatusOK, map[string]interface{}{
				"email": googleEmail,
				"new":   r.RowsAffected == 0 || user.Status == "STARTED_AUTH", "avatar": user.AvatarURL,
				"name":          user.Name,
				"access_token":  GenerateUserToken(fmt.Sprint(user.ID), c, 72),
				"refresh_token": refreshToken,
			})
		}
		if r.RowsAffected > 0 {
			if signUp.Name != "" {
				user.Name = signUp.Name
			}
			user.Status = "FINISHED_AUTH"
			user.UTMSource = signUp.UTMSource
			db.Save(&user)
			fmt.Println("User onboarding finished google: ", googleEmail, googleId)
			return c.JSON(http.StatusOK, map[string]interface{}{
				"id":           user.ID,
				"name":         user.Name,
				"email":        user.Email,
				"new":          true,
				"avatar":       user.AvatarURL,
				"access_token": GenerateUserToken(fmt.Sprint(user.ID), c, 72),
			})
		} else {
			c.Logger().Warnf("Error when finishing user creation, no user found in database %s %s", googleEmail, googleId)
			return c.JSON(http.StatusInternalServerError, map[string]interface{}{"message": "Sorry, something wrong happened, please try again!"})
		}

	})

	g.POST("/apple", func(c echo.Context) error {
		var req models.AppleAuthRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
		}

		teamID := services.GetEnv("APPLE_TEAM_ID", "VUWPX5QW93")
		keyID := services.GetEnv("APPLE_SIGNIN_KEY_ID", "5LCB7TR346")
		// ClientID is the "Services ID" value from the sign in with Apple enabled service
		clientID := services.GetEnv("APPLE_BUNDLE_ID", "com.skripe.closet")

		// The contents of the p8 file/key downloaded from the portal
		secret, err := services.DecodeBase64EnvPrivateKey("APPLE_SIGNIN_PKEY_BASE64")

		if err != nil {
			log.Println("Error getting Apple private key:", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		}
		secret, err = apple.GenerateClientSecret(secret, teamID, clientID, keyID)
		client := apple.New()

		vReq := apple.AppValidationTokenRequest{
			ClientID:     clientID,
			ClientSecret: secret,
			Code:         req.AuthorizationCode,
		}

		var resp apple.ValidationResponse

		err = client.VerifyAppToken(context.Background(), vReq, &resp)
		if err != nil {
			fmt.Println("error verifying: " + err.Error())
			return c.JSON(http.StatusForbidden, map[string]interface{}{"message": "Couldn't verify credentials"})
		}

		if resp.Error != "" {
			fmt.Printf("apple returned an error: %s - %s\n", resp.Error, resp.ErrorDescription)
			return c.JSON(http.StatusForbidden, map[string]interface{}{"message": "Couldn't verify credentials through Apple"})
		}

		unique, err := apple.GetUniqueID(resp.IDToken)
		if err != nil {
			fmt.Println("failed to get unique ID: " + err.Error())
			return c.JSON(http.StatusForbidden, map[string]interface{}{"message": "Couldn't get your unique identifier"})
		}

		claim, err := apple.GetClaims(resp.IDToken)
		if err != nil {
			fmt.Println("failed to get claims: " + err.Error())
			return c.JSON(http.StatusForbidden, map[string]interface{}{"message": "Couldn't get your information"})
		}

		appleEmail, ok := (*claim)["email"].(string)
		emailVerified, verifiedOk := (*claim)["email_verified"].(bool)
		isPrivateEmail, isPrivateEmailOk := (*claim)["is_private_email"].(bool)
		fmt.Println("[Apple signin] email:", appleEmail, " verified:", emailVerified, " private:", isPrivateEmail)
		if !ok {
			fmt.Println(fmt.Sprintf("[Apple signin] no email in token  %s", claim))
		}

		if !verifiedOk || !isPrivateEmailOk {
			log.Println("[Apple signin] Email not verified or is_private_email missing from claims")
		}
		platform := req.Platform
		var appleId string = unique

		db := c.Get("__db").(*gorm.DB)
		var user *models.UserAccount

		var r *gorm.DB
		if appleEmail == "" {
			r = db.Where("apple_id = ?", appleId).Limit(1).Find(&user)
		} else {
			r = db.Where("apple_id = ? or email = ?", appleId, appleEmail).Limit(1).Find(&user)
		}
		if r.Error != nil {
			return c.JSON(http.StatusInternalServerError, map[string]interface{}{"message": "Internal server error"})
		}
		if r.RowsAffected > 0 {
			if user.Banned {
				return echo.ErrForbidden
			}
			user.AppleID = appleId
			if user.AvatarURL == "" {
				user.AvatarURL = defaultAvatarURL
			}
			if user.Name == "" && appleEmail != "" {
				user.Name = appleEmail
			}
			user.LastIp = c.RealIP()
			user.Platform = models.ScanPlatform(platform)
			db.Save(&user)
			refreshToken, err := GenerateRefreshToken(fmt.Sprint(user.ID))
			if err != nil {
				fmt.Println(err)
				return echo.ErrInternalServerError
			}
			return c.JSON(http.StatusOK, map[string]interface{}{
				"id":           user.ID,
				"name":         user.Name,
				"subscription": user.Subscription,
				"email":        user.Email, "new": user.Status == "STARTED_AUTH", "avatar": user.AvatarURL,
				"access_token":  GenerateUserToken(fmt.Sprint(user.ID), c, 72),
				"refresh_token": refreshToken,
			})
		}

		if appleEmail == "" {
			fmt.Println("[Apple signin] New user but no email in claims")
			return c.JSON(http.StatusForbidden, map[string]interface{}{"message": "It seems that you are sign in the first time and no email provided by Apple. Please try it again or contact us at support@skripe.com."})
		}

		user = &models.UserAccount{
			Name:      appleEmail,
			Email:     appleEmail,
			AppleID:   appleId,
			Platform:  models.ScanPlatform(platform),
			LastIp:    c.RealIP(),
			Status:    "STARTED_AUTH",
			AvatarURL: defaultAvatarURL,
		}
		db.Create(&user)
		refreshToken, err := GenerateRefreshToken(fmt.Sprint(user.ID))
		if err != nil {
			fmt.Println(err)
			return echo.ErrInternalServerError
		}

		return c.JSON(http.StatusOK, map[string]interface{}{
			"id":    user.ID,
			"email": appleEmail,
			"new":   true, "avatar": user.AvatarURL,
			"name":          user.Name,
			"access_token":  GenerateUserToken(fmt.Sprint(user.ID), c, 72),
			"refresh_token": refreshToken,
		})
	})

	g.POST("/finish", func(c echo.Context) error {
		var req models.ProfileIn
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
		}
		if err := c.Validate(&req); err != nil {
			return err
		}
		user := c.Get("currentUser").(models.UserAccount)
		db := c.Get("__db").(*gorm.DB)
		if user.ID < 1 {
			return echo.ErrForbidden
		}
		if user.Status == "FINISHED_AUTH" {
			return echo.ErrBadRequest
		}
		user.Name = req.Name
		user.Status = "FINISHED_AUTH"
		user.UTMSource = req.UTMSource
		db.Save(&user)
		return c.JSON(http.StatusOK, map[string]interface{}{
			"id":           user.ID,
			"name":         user.Name,
			"email":        user.Email,
			"new":          true,
			"avatar":       user.AvatarURL,
			"access_token": GenerateUserToken(fmt.Sprint(user.ID), c, 72),
		})
	}, echojwt.JWT([]byte(os.Getenv("JWT_SECRET"))), UserMiddleware)

	g.POST("/refresh-token", func(c echo.Context) error {
		type tokenReqBody struct {
			RefreshToken string `json:"refresh_token"`
		}
		tokenReq := new(tokenReqBody)

		if err := c.Bind(&tokenReq); err != nil {
			fmt.Println(err)
			return echo.ErrBadRequest
		}

		if tokenReq.RefreshToken == "" {
			fmt.Println("Refresh token is empty")
			return echo.ErrBadRequest
		}
		token, err := jwt.Parse(tokenReq.RefreshToken, func(token *jwt.Token) (interface{}, error) {
			// Don't forget to validate the alg is what you expect:
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				fmt.Println("process?", ok)
				return nil, fmt.Errorf("Unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(os.Getenv("JWT_SECRET")), nil
		})
		if err != nil {
			fmt.Println(err)
			return echo.ErrBadRequest
		}
		if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
			db := c.Get("__db").(*gorm.DB)
			data, errConvert := claims["sub"].(string)
			if !errConvert {
				fmt.Println("Cannot convert sub to string!", err)
				return echo.ErrInternalServerError
			}
			userId, err := strconv.Atoi(data)
			if err != nil {
				fmt.Println("Error parsing sub of the user!!", err)
				return echo.ErrInternalServerError
			}
			if userId < 1 {
				fmt.Println("Refresh: sub is:", userId)
				return echo.ErrBadRequest
			}
			var user *models.UserAccount
			result := db.First(&user, userId)
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				fmt.Println("Requested user not found!", userId)
				if user == nil {
					return echo.ErrForbidden
				}
			}
			if result.Error != nil {
				fmt.Println("Error getting user while refreshing token", userId)
				return echo.ErrInternalServerError
			}
			if !user.Banned {

				t := GenerateUserToken(fmt.Sprint(userId), c, 72)
				rt, err := GenerateRefreshToken(fmt.Sprint(userId))

				if err != nil {
					fmt.Println("Error refreshing token ", err)
					return echo.ErrInternalServerError
				}

				return c.JSON(http.StatusOK, echo.Map{
					"access_token":  t,
					"refresh_token": rt,
				})
			}

			return echo.ErrUnauthorized
		}

		return err
	})

	g.POST("/settings", func(c echo.Context) error {
		user := c.Get("currentUser").(models.UserAccount)
		var settingsIn = new(models.UserSettingsIn)
		db := c.Get("__db").(*gorm.DB)
		if err := c.Bind(settingsIn); err != nil {
			return err
		}
		user.ReceiveNotifications = settingsIn.ReceiveNotifications
		db.Save(&user)
		return c.JSON(http.StatusOK, settingsIn)

	}, echojwt.JWT([]byte(os.Getenv("JWT_SECRET"))), UserMiddleware)

	g.POST("/register-push", func(c echo.Context) error {
		user := c.Get("currentUser").(models.UserAccount)
		db := c.Get("__db").(*gorm.DB)
		var tokenRequest = new(models.UserPushIn)

		if err := c.Bind(tokenRequest); err != nil {
			return err
		}

		if !models.ValidatePlatformRaw(string(tokenRequest.Platform)) {
			return c.JSON(http.StatusForbidden, map[string]interface{}{"message": "Please provide proper platform parameter"})
		}
		var pushData models.UserPushToken = models.UserPushToken{
			Platform:      models.ScanPlatform(tokenRequest.Platform),
			Token:         tokenRequest.Token,
			UserAccountID: user.ID,
			Active:        true,
		}

		// same token/device can sign in to diff accs and still receive pushes.
		// we try to delete other session but we cannot errly on that
		result := db.Where("token = ? and user_account_id = ?", tokenRequest.Token, user.ID).FirstOrCreate(&pushData)
		if result.Error != nil {
			log.Println(result.Error)
			return echo.ErrInternalServerError
		}
		if result.RowsAffected >= 1 {
			fmt.Println("Token created for user ", user.ID, "Platform: ", tokenRequest.Platform)
		}
		fmt.Println("Push id ", pushData.ID, " Token ", pushData.Token, " Platform: ", pushData.Platform, "User ID:", pushData.UserAccountID)
		return c.JSON(http.StatusOK, echo.Map{
			"message": "registered",
			"push_id": pushData.ID,
		})
	}, echojwt.JWT([]byte(os.Getenv("JWT_SECRET"))), UserMiddleware)

	g.POST("/delete-push", func(c echo.Context) error {
		user := c.Get("currentUser").(models.UserAccount)
		db := c.Get("__db").(*gorm.DB)
		var tokenRequest = new(models.UserPushIn)

		if err := c.Bind(tokenRequest); err != nil {
			return err
		}

		if !models.ValidatePlatformRaw(string(tokenRequest.Platform)) {
			return c.JSON(http.StatusForbidden, map[string]interface{}{"message": "Please provide proper platform parameter"})
		}

		result := db.Where("token = ? and user_account_id = ? and platform = ?", tokenRequest.Token, user.ID, tokenRequest.Platform).Delete(&models.UserPushToken{})
		if result.Error != nil {
			log.Println(result.Error)
			return echo.ErrInternalServerError
		}
		if result.RowsAffected >= 1 {
			fmt.Println("Token deleted for user ", user.ID, "Platform: ", tokenRequest.Platform)
		}
		return c.JSON(http.StatusOK, echo.Map{
			"message": "deleted",
			"deleted": result.RowsAffected > 0,
		})
	}, echojwt.JWT([]byte(os.Getenv("JWT_SECRET"))), UserMiddleware)

	g.POST("/logout", func(c echo.Context) error {
		user := c.Get("currentUser").(models.UserAccount)
		db := c.Get("__db").(*gorm.DB)
		var tokenRequest = new(models.UserPushIn)
		if err := c.Bind(tokenRequest); err != nil {
			return err
		}

		db.Where("user_account_id = ? and token = ?", user.ID, tokenRequest.Token).Delete(&models.UserPushToken{})

		return c.JSON(http.StatusOK, echo.Map{
			"message": "logged out",
		})
	}, echojwt.JWT([]byte(os.Getenv("JWT_SECRET"))), UserMiddleware)

	g.POST("/delete-account", func(c echo.Context) error {
		user := c.Get("currentUser").(models.UserAccount)
		db := c.Get("__db").(*gorm.DB)
		now := time.Now()
		user.ConfirmedDeleteDate = &now
		db.Save(user)
		return c.JSON(http.StatusOK, echo.Map{
			"message": "logged out",
		})
	}, echojwt.JWT([]byte(os.Getenv("JWT_SECRET"))), UserMiddleware)

	g.POST("/set-avatar", func(c echo.Context) error {
		user, ok := c.Get("currentUser").(models.UserAccount)
		if !ok {
			return c.JSON(http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
		}
		var req SetAvatarUploadFileRequest
		if err := c.Bind(&req); err != nil {
			fmt.Println(err)
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		}

		if err := c.Validate(req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}

		db, ok := c.Get("__db").(*gorm.DB)
		if !ok {
			return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Our service is not available, please try again a bit later"})
		}

		if !services.IsAllowedImageName(*req.FileName) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Unsupported image type"})
		}

		var bucketName = services.GetEnv("R2_BUCKET_NAME", "")
		safeFileName := fmt.Sprintf("avatars/%v/%s", user.ID, *req.FileName)

		uploadUrl, presignErr := m.AWSService.PresignLink(context.Background(), bucketName, safeFileName)
		if presignErr != nil {
			log.Printf("Unable to presign generate for avatar upload %s!, %s", user.Name, presignErr)
			return c.JSON(http.StatusInternalServerError, echo.Map{
				"message": "Error while uploading your avatar, please try again",
			})
		}
		user.AvatarURL = safeFileName
		fmt.Println("Presetting user avatar url to ", safeFileName)
		if err := db.Save(&user).Error; err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Failed to save your avatar"})
		}
		return c.JSON(http.StatusOK, map[string]string{"message": "Avatar is updated successfully", "upload_url": uploadUrl, "file_name": *req.FileName})
	}, echojwt.JWT([]byte(os.Getenv("JWT_SECRET"))), UserMiddleware)
}
