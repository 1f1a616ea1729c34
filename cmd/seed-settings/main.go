package main

import (
	"bufio"
	"context"
	"crypto/rand"
	"fmt"
	"os"
	"strings"
	"syscall"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"

	"github.com/gamenight/trivia-backend/internal/config"
	"github.com/gamenight/trivia-backend/internal/database"
	"github.com/gamenight/trivia-backend/internal/logger"
	"github.com/gamenight/trivia-backend/internal/model"
	"github.com/gamenight/trivia-backend/internal/repository"
)

const shareCodeChars = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	settingRepo := repository.NewSettingRepository(pool)

	// ─── CLI Input ─────────────────────────────────────────────────────
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=== Seed Game Settings ===")

	// Admin password
	fmt.Print("Enter Admin Password: ")
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		fmt.Println("\nError reading password")
		return
	}
	password := string(bytePassword)
	fmt.Println() // Newline after password input
	if len(password) < 6 {
		fmt.Println("Error: Password must be at least 6 characters")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), cfg.BcryptCost)
	if err != nil {
		fmt.Println("Error: Failed to hash password")
		return
	}

	// Share code: accept one or generate a random 6-char code. The charset
	// drops lookalike characters since the code is read off a screen.
	fmt.Print("Enter Share Code (blank to generate): ")
	shareCode, _ := reader.ReadString('\n')
	shareCode = strings.ToUpper(strings.TrimSpace(shareCode))
	if shareCode == "" {
		shareCode, err = randomShareCode(6)
		if err != nil {
			fmt.Println("Error: Failed to generate share code")
			return
		}
	}

	// ─── Persist ───────────────────────────────────────────────────────
	if err := settingRepo.Upsert(ctx, model.SettingAdminPasswordHash, string(hash)); err != nil {
		log.Fatal().Err(err).Msg("Failed to store admin password hash")
	}
	if err := settingRepo.Upsert(ctx, model.SettingShareCode, shareCode); err != nil {
		log.Fatal().Err(err).Msg("Failed to store share code")
	}

	fmt.Println("Settings seeded successfully")
	fmt.Printf("Share code: %s\n", shareCode)
}

func randomShareCode(length int) (string, error) {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = shareCodeChars[int(b)%len(shareCodeChars)]
	}
	return string(buf), nil
}
