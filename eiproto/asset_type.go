package eiproto

import (
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/descriptorpb"
)

// assetTypes lists ShellSpec.AssetType in declaration order. The first entry is
// the proto2 default for an unset asset_type field.
var assetTypes = []struct {
	name   string
	number int32
}{
	{"COOP", 1},
	{"SHACK", 2},
	{"SUPER_SHACK", 3},
	{"SHORT_HOUSE", 4},
	{"THE_STANDARD", 5},
	{"LONG_HOUSE", 6},
	{"DOUBLE_DECKER", 7},
	{"WAREHOUSE", 8},
	{"CENTER", 9},
	{"BUNKER", 10},
	{"EGGKEA", 11},
	{"HAB_1K", 12},
	{"HANGAR", 13},
	{"TOWER", 14},
	{"HAB_10K", 15},
	{"EGGTOPIA", 16},
	{"MONOLITH", 17},
	{"PLANET_PORTAL", 18},
	{"CHICKEN_UNIVERSE", 19},

	{"SILO_0_SMALL", 50},
	{"SILO_0_MED", 51},
	{"SILO_0_LARGE", 52},
	{"SILO_1_SMALL", 53},
	{"SILO_1_MED", 54},
	{"SILO_1_LARGE", 55},
	{"SILO_ALL", 56},

	{"MAILBOX", 70},
	{"TROPHY_CASE", 71},
	{"GROUND", 72},
	{"HARDSCAPE", 73},
	{"HYPERLOOP", 74},

	{"DEPOT_1", 100},
	{"DEPOT_2", 101},
	{"DEPOT_3", 102},
	{"DEPOT_4", 103},
	{"DEPOT_5", 104},
	{"DEPOT_6", 105},
	{"DEPOT_7", 106},

	{"LAB_1", 150},
	{"LAB_2", 151},
	{"LAB_3", 152},
	{"LAB_4", 153},
	{"LAB_5", 154},
	{"LAB_6", 155},

	{"HATCHERY_EDIBLE", 200},
	{"HATCHERY_SUPERFOOD", 201},
	{"HATCHERY_MEDICAL", 202},
	{"HATCHERY_ROCKET_FUEL", 203},
	{"HATCHERY_SUPERMATERIAL", 204},
	{"HATCHERY_FUSION", 205},
	{"HATCHERY_QUANTUM", 206},
	{"HATCHERY_IMMORTALITY", 207},
	{"HATCHERY_TACHYON", 208},
	{"HATCHERY_GRAVITON", 209},
	{"HATCHERY_DILITHIUM", 210},
	{"HATCHERY_PRODIGY", 211},
	{"HATCHERY_TERRAFORM", 212},
	{"HATCHERY_ANTIMATTER", 213},
	{"HATCHERY_DARK_MATTER", 214},
	{"HATCHERY_AI", 215},
	{"HATCHERY_NEBULA", 216},
	{"HATCHERY_UNIVERSE", 217},
	{"HATCHERY_ENLIGHTENMENT", 218},
	{"HATCHERY_CHOCOLATE", 219},
	{"HATCHERY_EASTER", 220},
	{"HATCHERY_WATERBALLOON", 221},
	{"HATCHERY_FIREWORK", 222},
	{"HATCHERY_PUMPKIN", 223},

	{"HOA_1", 250},
	{"HOA_2", 251},
	{"HOA_3", 252},

	{"MISSION_CONTROL_1", 300},
	{"MISSION_CONTROL_2", 301},
	{"MISSION_CONTROL_3", 302},

	{"FUEL_TANK_1", 350},
	{"FUEL_TANK_2", 351},
	{"FUEL_TANK_3", 352},
	{"FUEL_TANK_4", 353},

	{"CHICKEN", 500},
	{"HAT", 501},
	{"CAPE", 502},

	{"UNKNOWN", 9999},
}

func assetTypeEnum() *descriptorpb.EnumDescriptorProto {
	e := &descriptorpb.EnumDescriptorProto{Name: proto.String("AssetType")}
	for _, v := range assetTypes {
		e.Value = append(e.Value, &descriptorpb.EnumValueDescriptorProto{
			Name:   proto.String(v.name),
			Number: proto.Int32(v.number),
		})
	}
	return e
}
