package telegram

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"closetapi/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"gorm.io/gorm"
)

var usernames string = os.Getenv("TG_ADMINS") //separated by comma from env

const defaultAdminChatID = -1002078967836

func EscapeMessage(message string) string {
	r := strings.NewReplacer(
		"_", "\\_",
		"*", "\\*",
		"[", "\\[",
		"`", "\\`",
	)
	return r.Replace(message)
}

func adminChatID() int64 {
	raw := os.Getenv("TG_ADMIN_CHAT_ID")
	if raw == "" {
		return defaultAdminChatID
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		fmt.Println("Invalid TG_ADMIN_CHAT_ID, using default", err)
		return defaultAdminChatID
	}
	return id
}

// NotifyAdmins posts an operational message to the admin channel. Failures
// are logged and swallowed, a broken bot never fails the caller.
func NotifyAdmins(message string) {
	bot, err := tgbotapi.NewBotAPI(os.Getenv("TG_TOKEN"))
	if err != nil {
		fmt.Println("Error initializing telegram BOT!", err)
		return
	}

	msg := tgbotapi.NewMessage(adminChatID(), message)
	if _, err := bot.Send(msg); err != nil {
		fmt.Println(err)
	}
}

func isAdmin(username string) bool {
	if usernames == "" {
		usernames = "formality8765"
	}
	for _, admin := range strings.Split(usernames, ",") {
		if admin == username {
			return true
		}
	}
	return false
}

// RunAdminBot serves a tiny ops bot: admins can ask for wardrobe stats
// without touching the database directly.
func RunAdminBot(db *gorm.DB) {
	bot, err := tgbotapi.NewBotAPI(os.Getenv("TG_TOKEN"))
	if err != nil {
		println("Error tg bot init")
		log.Panic(err)
	}
	bot.Debug = true

	log.Printf("Authorized on account %s", bot.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := bot.GetUpdatesChan(u)

	for update := range updates {
		if update.Message == nil {
			continue
		}
		log.Printf("[%s] %s", update.Message.From.UserName, update.Message.Text)
		if !isAdmin(update.Message.From.UserName) {
			continue
		}
		switch update.Message.Command() {
		case "start":
			msg := tgbotapi.NewMessage(update.Message.Chat.ID, "Commands:\n/stats - users, garments and saved outfits totals")
			bot.Send(msg)
		case "stats":
			var userCount, clothingCount, outfitCount int64
			db.Model(&models.UserAccount{}).Count(&userCount)
			db.Model(&models.ClothingItem{}).Count(&clothingCount)
			db.Model(&models.SavedOutfit{}).Count(&outfitCount)
			msg := tgbotapi.NewMessage(update.Message.Chat.ID, fmt.Sprintf("Users: %v\nGarments: %v\nSaved outfits: %v", userCount, clothingCount, outfitCount))
			bot.Send(msg)
		}
	}
}
