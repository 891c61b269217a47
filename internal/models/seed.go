package models

import "time"

// Demo data served when no database is configured.

var seedEpoch = time.Date(2024, time.January, 8, 9, 30, 0, 0, time.UTC)

func seededAt(days int) time.Time {
	return seedEpoch.AddDate(0, 0, days)
}

func ref(id int64) *int64 { return &id }

func SeedAssetCategories() []AssetCategory {
	return []AssetCategory{
		{AssetCategoryID: 1, CategoryName: "Computers", Description: "Laptops, desktops and workstations", IsActive: true, AddedDate: seededAt(0)},
		{AssetCategoryID: 2, CategoryName: "Networking", Description: "Switches, routers and access points", IsActive: true, AddedDate: seededAt(1)},
		{AssetCategoryID: 3, CategoryName: "Peripherals", Description: "Monitors, docks and input devices", IsActive: true, AddedDate: seededAt(2)},
		{AssetCategoryID: 4, CategoryName: "Mobile Devices", Description: "Phones and tablets", IsActive: true, AddedDate: seededAt(3)},
		{AssetCategoryID: 5, CategoryName: "Furniture", Description: "Desks and chairs", IsActive: false, AddedDate: seededAt(4)},
		{AssetCategoryID: 6, CategoryName: "Audio Visual", Description: "Projectors and conference equipment", IsActive: true, AddedDate: seededAt(5)},
	}
}

func SeedAssetTypes() []AssetType {
	return []AssetType{
		{AssetTypeID: 1, TypeName: "Laptop", Description: "Portable computer", AssetCategoryID: 1, CategoryName: "Computers", AddedDate: seededAt(0)},
		{AssetTypeID: 2, TypeName: "Desktop", Description: "Tower or small form factor PC", AssetCategoryID: 1, CategoryName: "Computers", AddedDate: seededAt(1)},
		{AssetTypeID: 3, TypeName: "Switch", Description: "Managed ethernet switch", AssetCategoryID: 2, CategoryName: "Networking", AddedDate: seededAt(2)},
		{AssetTypeID: 4, TypeName: "Access Point", Description: "Wireless access point", AssetCategoryID: 2, CategoryName: "Networking", AddedDate: seededAt(3)},
		{AssetTypeID: 5, TypeName: "Monitor", Description: "External display", AssetCategoryID: 3, CategoryName: "Peripherals", AddedDate: seededAt(4)},
		{AssetTypeID: 6, TypeName: "Docking Station", Description: "USB-C or Thunderbolt dock", AssetCategoryID: 3, CategoryName: "Peripherals", AddedDate: seededAt(5)},
		{AssetTypeID: 7, TypeName: "Smartphone", Description: "Company phone", AssetCategoryID: 4, CategoryName: "Mobile Devices", AddedDate: seededAt(6)},
		{AssetTypeID: 8, TypeName: "Projector", Description: "Meeting room projector", AssetCategoryID: 6, CategoryName: "Audio Visual", AddedDate: seededAt(7)},
	}
}

func SeedManufacturers() []Manufacturer {
	return []Manufacturer{
		{ManufacturerID: 1, ManufacturerName: "Dell Technologies", Country: "United States", ContactEmail: "support@dell.com", Website: "https://www.dell.com", AddedDate: seededAt(0)},
		{ManufacturerID: 2, ManufacturerName: "Lenovo", Country: "China", ContactEmail: "support@lenovo.com", Website: "https://www.lenovo.com", AddedDate: seededAt(1)},
		{ManufacturerID: 3, ManufacturerName: "Apple", Country: "United States", ContactEmail: "enterprise@apple.com", Website: "https://www.apple.com", AddedDate: seededAt(2)},
		{ManufacturerID: 4, ManufacturerName: "Cisco Systems", Country: "United States", ContactEmail: "tac@cisco.com", Website: "https://www.cisco.com", AddedDate: seededAt(3)},
		{ManufacturerID: 5, ManufacturerName: "Samsung Electronics", Country: "South Korea", ContactEmail: "b2b@samsung.com", Website: "https://www.samsung.com", AddedDate: seededAt(4)},
		{ManufacturerID: 6, ManufacturerName: "Epson", Country: "Japan", ContactEmail: "service@epson.com", Website: "https://www.epson.com", AddedDate: seededAt(5)},
	}
}

func SeedBusinessUnits() []BusinessUnit {
	return []BusinessUnit{
		{BusinessUnitID: 1, UnitName: "Headquarters", UnitCode: "HQ", Location: "Bengaluru", ManagerName: "Priya Raman", AddedDate: seededAt(0)},
		{BusinessUnitID: 2, UnitName: "Engineering", UnitCode: "ENG", Location: "Bengaluru", ManagerName: "Arjun Mehta", AddedDate: seededAt(1)},
		{BusinessUnitID: 3, UnitName: "Sales West", UnitCode: "SLW", Location: "Mumbai", ManagerName: "Kavya Iyer", AddedDate: seededAt(2)},
		{BusinessUnitID: 4, UnitName: "Operations", UnitCode: "OPS", Location: "Pune", ManagerName: "Rahul Verma", AddedDate: seededAt(3)},
	}
}

// SeedAssets returns ten assets, three of which are laptops.
func SeedAssets() []Asset {
	bought := seededAt(-90)
	return []Asset{
		{AssetID: 1, AssetName: "Latitude 7440 Laptop", SerialNumber: "DL-7440-0001", AssetTag: "AT-0001", ModelNumber: "7440",
			AssetCategoryID: ref(1), AssetTypeID: ref(1), ManufacturerID: ref(1), BusinessUnitID: ref(2),
			Location: "Bengaluru", Status: AssetStatusActive, PurchaseDate: &bought, PurchaseCost: 1450, AddedDate: seededAt(0)},
		{AssetID: 2, AssetName: "ThinkPad X1 Carbon Laptop", SerialNumber: "LN-X1C-0002", AssetTag: "AT-0002", ModelNumber: "X1C-G11",
			AssetCategoryID: ref(1), AssetTypeID: ref(1), ManufacturerID: ref(2), BusinessUnitID: ref(3),
			Location: "Mumbai", Status: AssetStatusActive, PurchaseCost: 1620, AddedDate: seededAt(1)},
		{AssetID: 3, AssetName: "MacBook Pro 14 Laptop", SerialNumber: "AP-MBP-0003", AssetTag: "AT-0003", ModelNumber: "A2992",
			AssetCategoryID: ref(1), AssetTypeID: ref(1), ManufacturerID: ref(3), BusinessUnitID: ref(1),
			Location: "Bengaluru", Status: AssetStatusMaintenance, PurchaseCost: 2300, AddedDate: seededAt(2)},
		{AssetID: 4, AssetName: "OptiPlex 7010 Desktop", SerialNumber: "DL-7010-0004", AssetTag: "AT-0004", ModelNumber: "7010",
			AssetCategoryID: ref(1), AssetTypeID: ref(2), ManufacturerID: ref(1), BusinessUnitID: ref(4),
			Location: "Pune", Status: AssetStatusActive, PurchaseCost: 890, AddedDate: seededAt(3)},
		{AssetID: 5, AssetName: "Catalyst 9200 Switch", SerialNumber: "CS-9200-0005", AssetTag: "AT-0005", ModelNumber: "C9200-24T",
			AssetCategoryID: ref(2), AssetTypeID: ref(3), ManufacturerID: ref(4), BusinessUnitID: ref(1),
			Location: "Bengaluru", Status: AssetStatusActive, PurchaseCost: 2100, AddedDate: seededAt(4)},
		{AssetID: 6, AssetName: "Meraki MR46 Access Point", SerialNumber: "CS-MR46-0006", AssetTag: "AT-0006", ModelNumber: "MR46",
			AssetCategoryID: ref(2), AssetTypeID: ref(4), ManufacturerID: ref(4), BusinessUnitID: ref(3),
			Location: "Mumbai", Status: AssetStatusInactive, PurchaseCost: 780, AddedDate: seededAt(5)},
		{AssetID: 7, AssetName: "UltraSharp U2723QE Monitor", SerialNumber: "DL-U27-0007", AssetTag: "AT-0007", ModelNumber: "U2723QE",
			AssetCategoryID: ref(3), AssetTypeID: ref(5), ManufacturerID: ref(1), BusinessUnitID: ref(2),
			Location: "Bengaluru", Status: AssetStatusActive, PurchaseCost: 610, AddedDate: seededAt(6)},
		{AssetID: 8, AssetName: "ThinkPad Universal Dock", SerialNumber: "LN-DCK-0008", AssetTag: "AT-0008", ModelNumber: "40AY",
			AssetCategoryID: ref(3), AssetTypeID: ref(6), ManufacturerID: ref(2), BusinessUnitID: ref(2),
			Location: "Bengaluru", Status: AssetStatusActive, PurchaseCost: 240, AddedDate: seededAt(7)},
		{AssetID: 9, AssetName: "Galaxy S24 Phone", SerialNumber: "SM-S24-0009", AssetTag: "AT-0009", ModelNumber: "SM-S921B",
			AssetCategoryID: ref(4), AssetTypeID: ref(7), ManufacturerID: ref(5), BusinessUnitID: ref(3),
			Location: "Mumbai", Status: AssetStatusActive, PurchaseCost: 800, AddedDate: seededAt(8)},
		{AssetID: 10, AssetName: "EB-L260F Projector", SerialNumber: "EP-L260-0010", AssetTag: "AT-0010", ModelNumber: "EB-L260F",
			AssetCategoryID: ref(6), AssetTypeID: ref(8), ManufacturerID: ref(6), BusinessUnitID: ref(1),
			Location: "Bengaluru", Status: AssetStatusRetired, PurchaseCost: 1350, AddedDate: seededAt(9)},
	}
}
