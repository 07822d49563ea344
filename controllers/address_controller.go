package controllers

import (
	"github.com/bazargah/backend/config"
	"github.com/bazargah/backend/middleware"
	"github.com/bazargah/backend/models"
	"github.com/bazargah/backend/utils"
	"github.com/gin-gonic/gin"
)

// ListAddresses returns the user's saved addresses.
func ListAddresses(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.Unauthorized(c, utils.MsgAccessDenied)
		return
	}

	var addresses []models.UserAddress
	if err := config.DB.Where("user_id = ?", user.ID).
		Order("created_at DESC").
		Find(&addresses).Error; err != nil {
		utils.LogError("Failed to load addresses: %v", err)
		utils.InternalServerError(c, utils.MsgFailed, nil)
		return
	}

	utils.Success(c, utils.MsgSuccess, gin.H{"addresses": addresses})
}

// CreateAddress saves a new delivery address, capped per user.
func CreateAddress(c *gin.Context) {
	utils.LogInfo("CreateAddress called")

	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.Unauthorized(c, utils.MsgAccessDenied)
		return
	}

	var req struct {
		ReceiverName         string `json:"receiver_name" binding:"required"`
		ReceiverFamily       string `json:"receiver_family" binding:"required"`
		ReceiverPhone        string `json:"receiver_phone" binding:"required"`
		ReceiverNationalCode string `json:"receiver_national_code"`
		ReceiverProvince     string `json:"receiver_province" binding:"required"`
		ReceiverCity         string `json:"receiver_city" binding:"required"`
		ReceiverAddress      string `json:"receiver_address" binding:"required"`
		ReceiverPostalCode   string `json:"receiver_postal_code" binding:"required"`
		ReceiverBuildingNo   string `json:"receiver_building_number"`
		ReceiverUnit         string `json:"receiver_unit"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, utils.MsgAddressInvalid, nil)
		return
	}

	if !utils.ValidatePhone(req.ReceiverPhone) || !utils.ValidatePostalCode(req.ReceiverPostalCode) {
		utils.BadRequest(c, utils.MsgAddressInvalid, nil)
		return
	}

	count, err := utils.CountUserAddresses(user.ID)
	if err != nil {
		utils.LogError("Failed to count addresses: %v", err)
		utils.InternalServerError(c, utils.MsgFailed, nil)
		return
	}
	if count >= utils.MaxUserAddresses {
		utils.BadRequest(c, utils.MsgAddressTooMany, nil)
		return
	}

	address := models.UserAddress{
		UserID:               user.ID,
		ReceiverName:         req.ReceiverName,
		ReceiverFamily:       req.ReceiverFamily,
		ReceiverPhone:        req.ReceiverPhone,
		ReceiverNationalCode: req.ReceiverNationalCode,
		ReceiverProvince:     req.ReceiverProvince,
		ReceiverCity:         req.ReceiverCity,
		ReceiverAddress:      req.ReceiverAddress,
		ReceiverPostalCode:   req.ReceiverPostalCode,
		ReceiverBuildingNo:   req.ReceiverBuildingNo,
		ReceiverUnit:         req.ReceiverUnit,
	}
	if err := config.DB.Create(&address).Error; err != nil {
		utils.LogError("Failed to create address: %v", err)
		utils.InternalServerError(c, utils.MsgFailed, nil)
		return
	}

	utils.LogInfo("Address %d created for user %d", address.ID, user.ID)
	utils.Created(c, utils.MsgAddressAdded, gin.H{"address": address})
}

// DeleteAddress removes one of the user's saved addresses.
func DeleteAddress(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.Unauthorized(c, utils.MsgAccessDenied)
		return
	}

	res := config.DB.Where("id = ? AND user_id = ?", c.Param("id"), user.ID).
		Delete(&models.UserAddress{})
	if res.Error != nil {
		utils.LogError("Failed to delete address: %v", res.Error)
		utils.InternalServerError(c, utils.MsgFailed, nil)
		return
	}
	if res.RowsAffected == 0 {
		utils.NotFound(c, utils.MsgAddressInvalid)
		return
	}

	utils.Success(c, utils.MsgSuccess, nil)
}
