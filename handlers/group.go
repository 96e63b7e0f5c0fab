package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"github.com/ray-remotestate/littlelemon/database/dbhelper"
	"github.com/ray-remotestate/littlelemon/models"
	"github.com/ray-remotestate/littlelemon/utils"
)

// Group membership management. All of these sit behind the manager-only
// role middleware; the handlers only deal with the membership itself.

func ListManagers(w http.ResponseWriter, r *http.Request) {
	listGroupMembers(w, models.RoleManager)
}

func AddManager(w http.ResponseWriter, r *http.Request) {
	addGroupMember(w, r, models.RoleManager)
}

func RemoveManager(w http.ResponseWriter, r *http.Request) {
	removeGroupMember(w, r, models.RoleManager)
}

func ListDeliveryCrew(w http.ResponseWriter, r *http.Request) {
	listGroupMembers(w, models.RoleDeliveryCrew)
}

func AddDeliveryCrew(w http.ResponseWriter, r *http.Request) {
	addGroupMember(w, r, models.RoleDeliveryCrew)
}

func RemoveDeliveryCrew(w http.ResponseWriter, r *http.Request) {
	removeGroupMember(w, r, models.RoleDeliveryCrew)
}

func listGroupMembers(w http.ResponseWriter, role models.Role) {
	users, err := dbhelper.ListUsersInRole(role)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to query group members")
		return
	}
	utils.RespondJSON(w, http.StatusOK, users)
}

func addGroupMember(w http.ResponseWriter, r *http.Request, role models.Role) {
	type request struct {
		Email string `json:"email"`
	}

	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if req.Email == "" {
		utils.RespondError(w, http.StatusBadRequest, "email is required")
		return
	}

	userID, err := dbhelper.GetUserByEmail(req.Email)
	if err == sql.ErrNoRows {
		utils.RespondError(w, http.StatusNotFound, "user not found")
		return
	} else if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to resolve user")
		return
	}

	added, err := dbhelper.AddUserToRole(userID, role)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to add user to group")
		return
	}
	if !added {
		utils.RespondError(w, http.StatusConflict, "user is already in the group")
		return
	}

	utils.RespondJSON(w, http.StatusCreated, map[string]string{
		"message": "user added to group",
		"user_id": userID.String(),
		"group":   string(role),
	})
}

func removeGroupMember(w http.ResponseWriter, r *http.Request, role models.Role) {
	userID, ok := parseIDVar(w, r)
	if !ok {
		return
	}

	removed, err := dbhelper.RemoveUserFromRole(userID, role)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to remove user from group")
		return
	}
	if !removed {
		utils.RespondError(w, http.StatusNotFound, "user is not in the group")
		return
	}

	utils.RespondMessage(w, http.StatusOK, "user removed from group")
}
