package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"closetapi/models"
	"closetapi/services"
	"closetapi/telegram"

	firebase "firebase.google.com/go/v4"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type WebhooksController struct {
	Google      services.GoogleServiceProvider
	FirebaseApp *firebase.App
}

func (wc *WebhooksController) SetupRoutes(g *echo.Group) {

	g.POST("/rc-subscription-webhooks", func(c echo.Context) error {
		fmt.Println("Received webhook for subscription event auth: ", c.Request().Header.Get("Authorization"))
		if c.Request().Header.Get("Authorization") != "Bearer "+os.Getenv("RC_WEBHOOK_TOKEN") {
			// ip and other info logging
			fmt.Println("Invalid Authorization header for webhook!")
			fmt.Println("[Malicious] IP: ", c.RealIP(), "User agent: ", c.Request().Header.Get("User-Agent"), "Authorization: ", c.Request().Header.Get("Authorization"))
			return echo.ErrUnauthorized
		}

		db, ok := c.Get("__db").(*gorm.DB)
		if !ok {
			fmt.Println("error getting DB for subscription!")
			return echo.ErrInternalServerError
		}

		b, err := io.ReadAll(c.Request().Body)
		if err != nil {
			fmt.Println(err)
			return echo.ErrInternalServerError
		}
		var eventData map[string]interface{}
		fmt.Println("Event: ", string(b))
		err = json.NewDecoder(bytes.NewReader(b)).Decode(&eventData)
		if err != nil {
			fmt.Println("error parsing event json!")
			return echo.ErrInternalServerError
		}

		event, ok := eventData["event"].(map[string]interface{})
		if !ok {
			fmt.Println("Cannot parse event!")
			return echo.ErrInternalServerError
		}
		appUserId, ok := event["app_user_id"].(string)

		eventType, ok := event["type"].(string)
		if eventType == "TRANSFER" {
			fmt.Println("Transfer skip..")
			return c.JSON(http.StatusOK, echo.Map{
				"message": "OK TRANSFER",
			})
		}

		if strings.Contains(appUserId, "$RCAnonymousID") {
			appUserId = event["original_app_user_id"].(string)
			if strings.Contains(appUserId, "$RCAnonymousID") {
				fmt.Println("Anonymous ID couldnt verify the user!", appUserId)
				telegram.NotifyAdmins(fmt.Sprintf("Unknown user %s event: %s ", appUserId, eventType))
				return c.JSON(http.StatusOK, echo.Map{
					"message": "Error unknown user",
				})
			}
		}
		if !ok {
			fmt.Println("Cannot parse app user id!")
			return echo.ErrInternalServerError
		}

		time.Sleep(time.Second * 4)
		b, err = wc.Google.GetUserSubscriptionStatus(context.Background(), appUserId)
		if err != nil {
			fmt.Println(err)
			return echo.ErrInternalServerError
		}
		fmt.Println("Status sub: ", string(b))

		var subData map[string]interface{}

		err = json.NewDecoder(bytes.NewReader(b)).Decode(&subData)
		if err != nil {
			fmt.Println("Error decoding user subscription status", err)
			return echo.ErrInternalServerError
		}

		subscriber, ok := subData["subscriber"].(map[string]interface{})

		if !ok {
			fmt.Println("Error readin sub status of user ", appUserId)
			return echo.ErrInternalServerError
		}

		entitlements, ok := subscriber["entitlements"].(map[string]interface{})

		if !ok {
			fmt.Println("Error readin sub status of user ", appUserId)
			return echo.ErrInternalServerError
		}

		pro_entitlement, pro_ok := entitlements["pro"].(map[string]interface{})
		time_layout := "2006-01-02T15:04:05Z"

		var user models.UserAccount
		userId, err := strconv.ParseUint(appUserId, 10, 32)
		if err != nil {
			fmt.Println("Cannot parse user id to update sub!", appUserId)
			return echo.ErrInternalServerError
		}
		result := db.First(&user, userId)
		if result.Error != nil {
			fmt.Println("Cannot get user to update sub!", appUserId)
			return echo.ErrInternalServerError
		}

		if eventType == "EXPIRATION" {
			reason, _ := event["expiration_reason"]
			var planString = string(models.Free)
			user.Subscription = &planString
			db.Save(&user)
			fmt.Println("No active sub/entitlements found for user, updating ", user.Name)
			telegram.NotifyAdmins(fmt.Sprintf("🛑 %s %s reason %s", user.Name, eventType, reason))

			services.SendNotification(wc.FirebaseApp, db, user.ID, "Subscription expired", "Oh, no! Your closet just lost its stylist perks. Subscribe again to keep generating outfits! 🔥", nil)

			return c.JSON(http.StatusOK, echo.Map{
				"message": "expire ok",
			})
		}

		if eventType == "CANCELLATION" {
			reason, _ := event["cancel_reason"]
			var planString = string(models.Free)
			user.Subscription = &planString
			db.Save(&user)

			telegram.NotifyAdmins(fmt.Sprintf("🛑 %s %s reason %s", user.Name, eventType, reason))

			if reason == "UNSUBSCRIBE" {
				services.SendNotification(wc.FirebaseApp, db, user.ID, "Subscription cancelled", "Ready to take a survey for a discount just for one feedback? 🔥 sales@skripe.com. ", nil)
			} else if reason == "BILLING_ERROR" {
				services.SendNotification(wc.FirebaseApp, db, user.ID, "Payment error", "Please update your payment to keep your subscription active! 😮 ", nil)
			}

			return c.JSON(http.StatusOK, echo.Map{
				"message": "cancel ok",
			})
		}

		if pro_ok {
			fmt.Println(pro_entitlement["expires_date"].(string))
			expires, ok := pro_entitlement["expires_date"].(string)

			if !ok {
				fmt.Println("Error parsing Pro expiration date")
				return echo.ErrInternalServerError
			}
			t, err := time.Parse(time_layout, expires)

			if err != nil {
				fmt.Println(err)
			}
			fmt.Println(t, time.Now(), appUserId)
			var planString = string(models.Pro)
			user.Subscription = &planString
			user.ExpirationDate = &t
			db.Save(&user)
			if t.After(time.Now()) {
				fmt.Println("Sub Pro active for ", user.Name)
				if eventType == "INITIAL_PURCHASE" {
					telegram.NotifyAdmins(fmt.Sprintf("🎉⚡️🔥 %s subscription update: %s ", user.Name, string(models.Pro)))
				}
				periodType, ok := event["period_type"].(string)
				if ok && periodType == "PROMOTIONAL" {
					services.SendNotification(wc.FirebaseApp, db, user.ID, "Promo activated 🎉", fmt.Sprintf("Your %s subscription is now active until %s", "Pro", t.Format("2006-01-02")), nil)
				}
				return c.JSON(http.StatusOK, echo.Map{
					"message": "Pro is active",
				})
			}
		}

		fmt.Println("No active sub/entitlements found for user, updating backend sub ", appUserId)
		var planString = string(models.Free)
		user.Subscription = &planString
		db.Save(&user)
		telegram.NotifyAdmins(fmt.Sprintf("⚠️ %s subscription updated : %s %s", user.Name, string(models.Free), eventType))

		return c.JSON(http.StatusOK, echo.Map{
			"message": "OK ",
		})
	})
}
