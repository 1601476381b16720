package i18n

// text is one UI string in both languages.
type text struct {
	en string
	zh string
}

var uiStrings = map[string]text{
	// Navigation
	"nav.projects":  {"Demo sites", "案例演示"},
	"nav.packages":  {"Packages", "套餐价格"},
	"nav.rfq":       {"Smart RFQ", "智能询盘"},
	"nav.contact":   {"Contact", "联系我们"},
	"nav.dashboard": {"Command Center", "出口指挥中心"},
	"nav.home":      {"Home", "首页"},
	"nav.switch":    {"中文", "English"},

	// Landing page
	"hero.title":    {"Bilingual export websites for factories and trading companies", "为工厂和外贸公司打造中英双语出口型网站"},
	"hero.subtitle": {"Factory profiles, sourcing agencies and export shops, with optional AI tools that turn buyer notes into RFQs.", "工厂官网、采购服务站和出口商城，可选 AI 工具，把买家备注变成规范询盘。"},
	"hero.cta":      {"See packages", "查看套餐"},
	"hero.cta2":     {"Talk to us", "立即咨询"},

	"projects.title":    {"Live demo sites", "在线演示网站"},
	"projects.subtitle": {"Each package is based on one of these demos.", "每个套餐都基于以下一个演示站。"},
	"projects.visit":    {"Open demo", "打开演示"},

	"packages.title":       {"Website packages", "网站套餐"},
	"packages.subtitle":    {"One-time build price, hosting and AI add-ons quoted separately.", "一次性建站价格，主机与 AI 功能另行报价。"},
	"packages.recommended": {"Recommended", "推荐"},
	"packages.ai":          {"AI add-ons", "AI 增值功能"},
	"packages.demo":        {"Based on demo", "对应演示站"},

	// Smart RFQ
	"rfq.title":          {"AI Smart RFQ", "AI 智能询盘"},
	"rfq.intro":          {"Paste what your buyer told you. We expand it into a structured RFQ in English and Chinese.", "填写买家的原始需求，AI 自动整理为中英文结构化询盘。"},
	"rfq.company":        {"Company", "公司名称"},
	"rfq.buyer_name":     {"Contact person", "联系人"},
	"rfq.email":          {"Email", "邮箱"},
	"rfq.country":        {"Buyer country/region", "采购国家/地区"},
	"rfq.product":        {"Product focus", "产品方向"},
	"rfq.quantity":       {"Approx. quantity/budget", "大致数量或金额"},
	"rfq.incoterm":       {"Preferred Incoterm", "希望的贸易条款 (Incoterm)"},
	"rfq.target_port":    {"Target port/city", "目的港/城市"},
	"rfq.quality_level":  {"Quality level", "目标质量档次"},
	"rfq.certifications": {"Required certifications/standards", "认证或要求标准"},
	"rfq.packaging":      {"Packaging requirements", "包装要求"},
	"rfq.notes":          {"Extra notes", "补充说明"},
	"rfq.submit":         {"Generate RFQ", "生成询盘"},
	"rfq.result_en":      {"RFQ (English)", "询盘（英文）"},
	"rfq.result_zh":      {"RFQ (Chinese)", "询盘（中文）"},

	// Contact
	"contact.title":    {"Start your project", "开始您的项目"},
	"contact.subtitle": {"Tell us about your products and target market. We reply within 24 hours.", "告诉我们您的产品和目标市场，我们会在24小时内回复。"},
	"contact.name":     {"Your name", "您的姓名"},
	"contact.email":    {"Email", "邮箱"},
	"contact.company":  {"Company", "公司"},
	"contact.message":  {"What do you need?", "您的需求"},
	"contact.submit":   {"Send inquiry", "发送需求"},
	"contact.invalid":  {"Please check the form: a name is required and the email must be valid.", "请检查表单：姓名为必填项，邮箱格式需正确。"},
	"contact.failed":   {"Sorry, your inquiry could not be saved. Please try again or email us directly.", "抱歉，需求提交失败，请稍后重试或直接发邮件联系我们。"},

	// Chat widget
	"chat.title":       {"Export website consultant", "出口网站顾问"},
	"chat.greeting":    {"Hi! Tell me what you make and which markets you sell to.", "您好！请告诉我您的产品和目标市场。"},
	"chat.placeholder": {"Type your question...", "请输入您的问题..."},
	"chat.send":        {"Send", "发送"},
	"chat.open":        {"Chat with us", "在线咨询"},

	// Dashboard
	"dash.title":        {"Export Command Center", "出口指挥中心"},
	"dash.subtitle":     {"All client sites, leads and AI tools in one view.", "一屏查看所有客户网站、询盘与 AI 工具。"},
	"dash.total_sites":  {"Sites", "网站数量"},
	"dash.total_leads":  {"Leads (30 days)", "近30天询盘"},
	"dash.ai_sites":     {"AI-enabled sites", "启用 AI 的网站"},
	"dash.sites":        {"Sites", "网站列表"},
	"dash.site":         {"Site", "网站"},
	"dash.type":         {"Type", "类型"},
	"dash.status":       {"Status", "状态"},
	"dash.leads":        {"Leads 30d", "30天询盘"},
	"dash.ai":           {"AI features", "AI 功能"},
	"dash.recent":       {"Recent leads", "最新询盘"},
	"dash.date":         {"Date", "日期"},
	"dash.company":      {"Company", "公司"},
	"dash.country":      {"Country", "国家"},
	"dash.project":      {"Project", "项目"},
	"dash.budget":       {"Budget", "预算"},
	"dash.live":         {"Live", "实时"},
	"status.online":     {"Online", "运行中"},
	"status.building":   {"Building", "建设中"},
	"dash.ai_usage":     {"AI requests", "AI 调用次数"},
	"dash.rfq_requests": {"Smart RFQ", "智能询盘"},
	"dash.chat_replies": {"Chat replies", "在线咨询"},

	"footer.copyright": {"SkyLane AI Studio. Bilingual export websites.", "天航智网工作室 · 出口型双语网站"},
}

// T returns the UI string for key in lang. A missing Chinese string falls
// back to English and an unknown key is returned unchanged.
func T(lang Lang, key string) string {
	s, ok := uiStrings[key]
	if !ok {
		return key
	}
	return Pick(lang, s.en, s.zh)
}

// Has reports whether key is a known UI string.
func Has(key string) bool {
	_, ok := uiStrings[key]
	return ok
}
