package outlets

import "encoding/json"

// MyOutletsResponse keeps the envelope the outlet switcher expects
type MyOutletsResponse struct {
	Msg        string            `json:"msg"`
	Data       []OutletListEntry `json:"data"`
	Pagination OutletsPagination `json:"pagination"`
	Error      bool              `json:"error"`
	AppVersion string            `json:"app_version"`
}

type OutletListEntry struct {
	BusinessName string     `json:"business_name"`
	OutletID     string     `json:"outlet_id"`
	UserRoleID   string     `json:"user_role_id"`
	Type         OutletType `json:"type"`
}

type OutletsPagination struct {
	Total int64 `json:"total"`
}

type SelectOutletRequest struct {
	OutletID string `json:"outlet_id" binding:"required,uuid"`
}

// persisted client snapshot, same layout as the browser store
type clientSnapshot struct {
	State   json.RawMessage `json:"state"`
	Version int             `json:"version"`
}

type outletStoreState struct {
	CurrentOutlet *Outlet `json:"currentOutlet"`
}
