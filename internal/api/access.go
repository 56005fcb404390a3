package api

import (
	"strconv"
	"strings"

	"github.com/xzeggaedu/fica-academic-sub002/internal/model"

	"github.com/gin-gonic/gin"
)

const (
	RoleAdmin = "admin"
	RoleDean  = "dean"
)

// Viewer is the caller identity the gateway forwards in headers.
// Authentication itself happens upstream; this service only evaluates
// per-record action flags from the forwarded identity.
type Viewer struct {
	Name      string
	Role      string
	SchoolIDs map[int64]struct{}
}

func ViewerFromRequest(c *gin.Context) Viewer {
	v := Viewer{
		Name:      c.GetHeader("X-User"),
		Role:      strings.ToLower(c.GetHeader("X-Role")),
		SchoolIDs: make(map[int64]struct{}),
	}

	for _, part := range strings.Split(c.GetHeader("X-Schools"), ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if id, err := strconv.ParseInt(part, 10, 64); err == nil {
			v.SchoolIDs[id] = struct{}{}
		}
	}

	return v
}

// Privileged reports whether the viewer gets the term-first grouped view.
func (v Viewer) Privileged() bool {
	return v.Role == RoleDean || v.Role == RoleAdmin
}

// CanManage reports whether view/delete actions are enabled for the
// record: the viewer owns it, has an elevated role, or is scoped to the
// record's school.
func (v Viewer) CanManage(f model.AcademicLoadFile) bool {
	if v.Privileged() {
		return true
	}
	if v.Name != "" && v.Name == f.UserName {
		return true
	}
	_, scoped := v.SchoolIDs[f.SchoolID]
	return scoped
}
