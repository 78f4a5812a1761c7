package handlers

import (
	"context"
	"fmt"

	websocketcontrib "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	config "github.com/tutorcenter/scheduler/configs"
	"github.com/tutorcenter/scheduler/database"
	"github.com/tutorcenter/scheduler/middleware"
	"github.com/tutorcenter/scheduler/websocket"
	"go.uber.org/zap"
)

func parseToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(config.Settings.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// WsUpgrade authenticates the ?token= query before the websocket upgrade.
func WsUpgrade(c *fiber.Ctx) error {
	if !websocketcontrib.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	claims, err := parseToken(c.Query("token"))
	if err != nil {
		return errorMessage(c, fiber.StatusUnauthorized, "Invalid token")
	}
	userID, ok := middleware.ClaimsUserID(claims)
	if !ok {
		return errorMessage(c, fiber.StatusUnauthorized, "Invalid token")
	}
	p, err := middleware.Resolve(c.UserContext(), database.DB, userID)
	if err != nil {
		return err
	}
	if p.User == nil || !p.User.IsActive {
		return errorMessage(c, fiber.StatusUnauthorized, "Invalid token")
	}
	c.Locals("ws_user_id", userID)
	return c.Next()
}

// ServeWs streams slot events to one connection until it closes.
func ServeWs(conn *websocketcontrib.Conn) {
	userID, _ := conn.Locals("ws_user_id").(uint)
	client := websocket.NewClient(userID)
	websocket.Default.Register(client)

	ctx, cancel := context.WithCancel(context.Background())
	defer func() {
		cancel()
		websocket.Default.Unregister(client)
		conn.Close()
	}()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-client.Send:
				if !ok {
					_ = conn.WriteMessage(websocketcontrib.CloseMessage, []byte{})
					return
				}
				if err := conn.WriteJSON(evt); err != nil {
					zap.S().Debugw("ws write failed", "client", client.ID, "error", err)
					return
				}
			}
		}
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocketcontrib.IsUnexpectedCloseError(err, websocketcontrib.CloseGoingAway, websocketcontrib.CloseNormalClosure) {
				zap.S().Debugw("ws read error", "client", client.ID, "user", userID, "error", err)
			}
			return
		}
	}
}
