// Команда tokengen выпускает токен доступа к API для владельца.
//
//	tokengen -s secret [-o owner-uuid]
//
// Токен передаётся в заголовке "Authorization: Bearer <token>". Браузерный
// клиент обменивает его на cookie auth_token запросом POST /api/session.
//
// Без -o генерируется новый идентификатор владельца.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"

	"github.com/mmeshcher/barberpos/internal/middleware"
)

func main() {
	secret := flag.String("s", os.Getenv("AUTH_SECRET"), "secret key for signing auth tokens")
	owner := flag.String("o", "", "owner id")
	flag.Parse()

	if *secret == "" {
		log.Fatal("secret is required: pass -s or set AUTH_SECRET")
	}

	ownerID := uuid.New()
	if *owner != "" {
		id, err := uuid.Parse(*owner)
		if err != nil {
			log.Fatalf("invalid owner id: %v", err)
		}
		ownerID = id
	}

	token, err := middleware.NewAuthMiddleware(*secret).IssueToken(ownerID)
	if err != nil {
		log.Fatalf("issue token: %v", err)
	}

	fmt.Printf("owner: %s\ntoken: %s\n", ownerID, token)
}
