package app

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/IpsitaPrusty/smart-home-website/internal/config"
	httpx "github.com/IpsitaPrusty/smart-home-website/internal/http"
	"github.com/IpsitaPrusty/smart-home-website/internal/infrastructure/auth"
)

func Run(cfg *config.Config) error {
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	container, err := NewContainer(cfg)
	if err != nil {
		return err
	}
	defer container.Close()

	r := httpx.BuildRouter(
		container.AuthHandlers,
		container.ConsentHandlers,
		container.ParentalHandlers,
		container.DeviceHandlers,
		container.JWTMw,
		container.CasbinMw,
	)

	seedPolicies(container.CasbinSvc)

	addr := ":" + cfg.Port
	log.Printf("listening on %s", addr)
	return http.ListenAndServe(addr, r)
}

// seedPolicies installs the default tier policies on first boot. Every tier
// sees the dashboard; per-device restrictions come from the access policy,
// not from routing.
func seedPolicies(cas *auth.CasbinService) {
	policies, _ := cas.E.GetPolicy()
	if len(policies) > 0 {
		return
	}
	for _, tier := range []string{"tier_CHILD", "tier_MINOR", "tier_ADULT"} {
		cas.E.AddPolicy(tier, "/auth/me", "GET")
		cas.E.AddPolicy(tier, "/auth/logout", "POST")
		cas.E.AddPolicy(tier, "/devices", "GET")
		cas.E.AddPolicy(tier, "/devices/:id/access", "GET")
	}
	_ = cas.E.SavePolicy()
	log.Println("casbin: seeded default tier policies")
}
