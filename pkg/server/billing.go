package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"

	"fable/pkg/utils"
)

// GET /api/credits
//
// Refreshes the subscription tier from billing when configured; a failed
// refresh keeps the last known tier.
func (s *Server) handleGetCredits(c echo.Context) error {
	if s.Billing != nil {
		if customerID, err := s.Store.CustomerID(); err == nil {
			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			pro, err := s.Billing.Subscription(ctx, customerID)
			cancel()
			if err != nil {
				log.Debug("subscription check failed", "error", err)
			} else if err := s.Counter.SetPro(pro); err != nil {
				log.Warn("failed persisting tier change", "error", err)
			}
		}
	}
	return c.JSON(http.StatusOK, s.creditState())
}

// POST /api/upgrade
//
// With billing configured this starts a checkout; without it the upgrade is
// granted directly (local development). The first transition to pro resets
// usage exactly once.
func (s *Server) handlePostUpgrade(c echo.Context) error {
	if s.Billing == nil {
		if err := s.Counter.SetPro(true); err != nil {
			return c.JSON(http.StatusInternalServerError, utils.ErrJSON("failed applying upgrade"))
		}
		return c.JSON(http.StatusOK, s.creditState())
	}

	customerID, err := s.Store.CustomerID()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, utils.ErrJSON("failed resolving customer"))
	}

	ctx := c.Request().Context()
	checkoutURL, err := s.Billing.Attach(ctx, customerID)
	if err != nil {
		log.Error("upgrade attach failed", "customer", customerID, "error", err)
		return c.JSON(http.StatusBadGateway, utils.ErrJSON("failed starting upgrade"))
	}
	if checkoutURL != "" {
		return c.JSON(http.StatusOK, map[string]string{"checkoutUrl": checkoutURL})
	}

	// Attached without payment; confirm and apply the tier right away.
	pro, err := s.Billing.Subscription(ctx, customerID)
	if err != nil {
		log.Warn("subscription check after attach failed", "customer", customerID, "error", err)
	} else if err := s.Counter.SetPro(pro); err != nil {
		return c.JSON(http.StatusInternalServerError, utils.ErrJSON("failed applying upgrade"))
	}
	return c.JSON(http.StatusOK, s.creditState())
}

func (s *Server) creditState() map[string]any {
	return map[string]any{
		"used":      s.Counter.Used(),
		"limit":     s.Counter.Limit(),
		"remaining": s.Counter.Remaining(),
		"tier":      s.Counter.Tier().String(),
	}
}
